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

var invoiceColumns = []string{
	"number", "order_number", "customer_id", "items", "subtotal",
	"discount_amount", "tax_amount", "shipping_cost", "total_amount",
	"status", "issue_date", "due_date", "paid_amount", "balance_due",
	"created_at", "updated_at",
}

func (r *Repository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("invoices").
		Columns(invoiceColumns...).
		Values(invoice.Number, nullableNumber(invoice.OrderNumber),
			nullableString(invoice.CustomerID), items, invoice.Subtotal,
			invoice.DiscountAmt, invoice.TaxAmount, invoice.ShippingCost,
			invoice.TotalAmount, invoice.Status, invoice.IssueDate,
			invoice.DueDate, invoice.PaidAmount, invoice.BalanceDue,
			invoice.CreatedAt, invoice.UpdatedAt)

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
	return invoice, nil
}

func (r *Repository) ReadInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error) {
	statement := r.db.QueryBuilder.
		Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	invoice := domain.Invoice{}
	var items []byte
	var orderNumber, customerID *string

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&invoice.Number,
		&orderNumber,
		&customerID,
		&items,
		&invoice.Subtotal,
		&invoice.DiscountAmt,
		&invoice.TaxAmount,
		&invoice.ShippingCost,
		&invoice.TotalAmount,
		&invoice.Status,
		&invoice.IssueDate,
		&invoice.DueDate,
		&invoice.PaidAmount,
		&invoice.BalanceDue,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(items, &invoice.Items); err != nil {
		return nil, err
	}
	if orderNumber != nil {
		invoice.OrderNumber = domain.DocumentNumber(*orderNumber)
	}
	if customerID != nil {
		invoice.CustomerID = *customerID
	}

	return &invoice, nil
}

func (r *Repository) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	statement := r.db.QueryBuilder.
		Update("invoices").
		Set("status", invoice.Status).
		Set("due_date", invoice.DueDate).
		Set("paid_amount", invoice.PaidAmount).
		Set("balance_due", invoice.BalanceDue).
		Set("updated_at", invoice.UpdatedAt).
		Where(sq.Eq{"number": invoice.Number})

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
	return invoice, nil
}
