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

var orderColumns = []string{
	"number", "customer_id", "items", "subtotal", "discount_percent",
	"discount_amount", "tax_amount", "shipping_cost", "total_amount",
	"status", "payment_state", "paid_amount", "balance_due",
	"fulfilled_items", "deleted", "created_at", "updated_at",
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.SalesOrder) (*domain.SalesOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	fulfilled, err := json.Marshal(orEmpty(order.FulfilledItems))
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("sales_orders").
		Columns(orderColumns...).
		Values(order.Number, order.CustomerID, items, order.Subtotal,
			order.DiscountPercent, order.DiscountAmount, order.TaxAmount,
			order.ShippingCost, order.TotalAmount, order.Status,
			order.PaymentState, order.PaidAmount, order.BalanceDue,
			fulfilled, order.Deleted, order.CreatedAt, order.UpdatedAt)

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
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("sales_orders").
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *domain.SalesOrder) (*domain.SalesOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	fulfilled, err := json.Marshal(orEmpty(order.FulfilledItems))
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Update("sales_orders").
		Set("items", items).
		Set("subtotal", order.Subtotal).
		Set("discount_percent", order.DiscountPercent).
		Set("discount_amount", order.DiscountAmount).
		Set("tax_amount", order.TaxAmount).
		Set("shipping_cost", order.ShippingCost).
		Set("total_amount", order.TotalAmount).
		Set("status", order.Status).
		Set("payment_state", order.PaymentState).
		Set("paid_amount", order.PaidAmount).
		Set("balance_due", order.BalanceDue).
		Set("fulfilled_items", fulfilled).
		Set("deleted", order.Deleted).
		Set("updated_at", order.UpdatedAt).
		Where(sq.Eq{"number": order.Number})

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
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.SalesOrder, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("sales_orders").
		Where(sq.Eq{"deleted": false}).
		OrderBy("created_at desc")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.SalesOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func scanOrder(row pgx.Row) (*domain.SalesOrder, error) {
	order := domain.SalesOrder{}
	var items, fulfilled []byte

	err := row.Scan(
		&order.Number,
		&order.CustomerID,
		&items,
		&order.Subtotal,
		&order.DiscountPercent,
		&order.DiscountAmount,
		&order.TaxAmount,
		&order.ShippingCost,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentState,
		&order.PaidAmount,
		&order.BalanceDue,
		&fulfilled,
		&order.Deleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fulfilled, &order.FulfilledItems); err != nil {
		return nil, err
	}

	return &order, nil
}

// orEmpty keeps jsonb columns as [] instead of null.
func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
