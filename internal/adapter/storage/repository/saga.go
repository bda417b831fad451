package repository

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/salescore/backend/internal/core/domain"
)

func (r *Repository) CreateSagaLog(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
	steps, err := json.Marshal(log.Steps)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("saga_logs").
		Columns("id", "name", "status", "steps", "created_at", "updated_at").
		Values(log.ID, log.Name, log.Status, steps, log.CreatedAt, log.UpdatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *Repository) UpdateSagaLog(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
	steps, err := json.Marshal(log.Steps)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Update("saga_logs").
		Set("status", log.Status).
		Set("steps", steps).
		Set("updated_at", log.UpdatedAt).
		Where(sq.Eq{"id": log.ID})

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
	return log, nil
}
