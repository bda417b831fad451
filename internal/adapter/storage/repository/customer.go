package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/govalues/decimal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/salescore/backend/internal/core/domain"
)

func (r *Repository) GetCustomer(ctx context.Context, lookup domain.CustomerLookup) (*domain.Customer, error) {
	var where sq.Eq
	switch lookup.Kind {
	case domain.CustomerByID:
		where = sq.Eq{"id": lookup.Value}
	case domain.CustomerByEmail:
		where = sq.Eq{"email": lookup.Value}
	case domain.CustomerByCode:
		where = sq.Eq{"code": lookup.Value}
	default:
		return nil, fmt.Errorf("unknown customer lookup kind %q", lookup.Kind)
	}

	statement := r.db.QueryBuilder.
		Select("id", "code", "email", "name", "payment_terms", "order_count", "lifetime_spend", "created_at").
		From("customers").
		Where(where)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	customer := domain.Customer{}
	var code, email *string

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&customer.ID,
		&code,
		&email,
		&customer.Name,
		&customer.PaymentTerms,
		&customer.OrderCount,
		&customer.LifetimeSpend,
		&customer.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	if code != nil {
		customer.Code = *code
	}
	if email != nil {
		customer.Email = *email
	}

	return &customer, nil
}

// createCustomerStatement inserts empty code and email as NULL so the
// unique indexes on those columns ignore customers created without one.
func (r *Repository) createCustomerStatement(customer *domain.Customer) sq.InsertBuilder {
	return r.db.QueryBuilder.
		Insert("customers").
		Columns("code", "email", "name", "payment_terms").
		Values(nullableString(customer.Code), nullableString(customer.Email),
			customer.Name, customer.PaymentTerms).
		Suffix("returning id, created_at")
}

func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	sql, args, err := r.createCustomerStatement(customer).ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	customer.LifetimeSpend = decimal.Zero

	return customer, nil
}

func (r *Repository) UpdateCustomerStats(ctx context.Context, customerID string, orderTotal decimal.Decimal) error {
	statement := r.db.QueryBuilder.
		Update("customers").
		Set("order_count", sq.Expr("order_count + 1")).
		Set("lifetime_spend", sq.Expr("lifetime_spend + ?", orderTotal)).
		Where(sq.Eq{"id": customerID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}
