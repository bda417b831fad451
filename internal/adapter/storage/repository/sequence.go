package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/salescore/backend/internal/core/domain"
)

// NextSequence atomically increments the per-family counter and returns
// the new value. The upsert makes the first allocation of a family
// create its row.
func (r *Repository) NextSequence(ctx context.Context, family string) (uint64, error) {
	statement := r.db.QueryBuilder.
		Insert("sequences").
		Columns("family", "value").
		Values(family, 1).
		Suffix("on conflict (family) do update set value = sequences.value + 1 returning value")

	sql, args, err := statement.ToSql()
	if err != nil {
		return 0, err
	}

	var value uint64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

var familyTables = map[string]string{
	"SO":  "sales_orders",
	"INV": "invoices",
	"PAY": "payments",
	"REF": "refunds",
}

func (r *Repository) NumberExists(ctx context.Context, family string, number domain.DocumentNumber) (bool, error) {
	table, ok := familyTables[family]
	if !ok {
		// Families without a collection yet (quotes) cannot collide.
		return false, nil
	}

	statement := r.db.QueryBuilder.
		Select("1").
		From(table).
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
