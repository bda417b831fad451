package repository

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/salescore/backend/internal/core/domain"
)

// paymentDetails is the method-specific jsonb block on a payment row.
type paymentDetails struct {
	Cash *domain.CashDetails `json:"cash,omitempty"`
	Card *domain.CardDetails `json:"card,omitempty"`
}

var paymentColumns = []string{
	"number", "method", "amount", "currency", "status", "details",
	"order_number", "invoice_number", "customer_id", "refunded_amount",
	"refund_numbers", "created_at", "updated_at",
}

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	details, err := json.Marshal(paymentDetails{Cash: payment.Cash, Card: payment.Card})
	if err != nil {
		return nil, err
	}
	refunds, err := json.Marshal(orEmpty(payment.RefundNumbers))
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("payments").
		Columns(paymentColumns...).
		Values(payment.Number, payment.Method, payment.Amount, payment.Currency,
			payment.Status, details, nullableNumber(payment.OrderNumber),
			nullableNumber(payment.InvoiceNumber), nullableString(payment.CustomerID),
			payment.RefundedAmount, refunds, payment.CreatedAt, payment.UpdatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return payment, nil
}

func (r *Repository) ReadPayment(ctx context.Context, number domain.DocumentNumber) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	refunds, err := json.Marshal(orEmpty(payment.RefundNumbers))
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Update("payments").
		Set("status", payment.Status).
		Set("refunded_amount", payment.RefundedAmount).
		Set("refund_numbers", refunds).
		Set("updated_at", payment.UpdatedAt).
		Where(sq.Eq{"number": payment.Number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}
	return payment, nil
}

func (r *Repository) ListPaymentsByOrder(ctx context.Context, orderNumber domain.DocumentNumber) ([]*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"order_number": orderNumber}).
		OrderBy("created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, payment)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) CreateRefund(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	statement := r.db.QueryBuilder.
		Insert("refunds").
		Columns("number", "payment_number", "amount", "reason", "created_at").
		Values(refund.Number, refund.PaymentNumber, refund.Amount, refund.Reason, refund.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return refund, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	payment := domain.Payment{}
	var details, refunds []byte
	var orderNumber, invoiceNumber, customerID *string

	err := row.Scan(
		&payment.Number,
		&payment.Method,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&details,
		&orderNumber,
		&invoiceNumber,
		&customerID,
		&payment.RefundedAmount,
		&refunds,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if details != nil {
		var d paymentDetails
		if err := json.Unmarshal(details, &d); err != nil {
			return nil, err
		}
		payment.Cash = d.Cash
		payment.Card = d.Card
	}
	if err := json.Unmarshal(refunds, &payment.RefundNumbers); err != nil {
		return nil, err
	}
	if orderNumber != nil {
		payment.OrderNumber = domain.DocumentNumber(*orderNumber)
	}
	if invoiceNumber != nil {
		payment.InvoiceNumber = domain.DocumentNumber(*invoiceNumber)
	}
	if customerID != nil {
		payment.CustomerID = *customerID
	}

	return &payment, nil
}

func nullableNumber(number domain.DocumentNumber) *string {
	if number == "" {
		return nil
	}
	s := string(number)
	return &s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
