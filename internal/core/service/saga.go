package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// SagaStep is one unit of work inside a multi-entity transaction. Every
// step carries a compensating action that undoes its effect.
type SagaStep interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

type sagaStep struct {
	name       string
	execute    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

func (s *sagaStep) Name() string                      { return s.name }
func (s *sagaStep) Execute(ctx context.Context) error { return s.execute(ctx) }

func (s *sagaStep) Compensate(ctx context.Context) error {
	if s.compensate == nil {
		return nil
	}
	return s.compensate(ctx)
}

// SagaCoordinator runs steps sequentially and persists a completion
// marker per step. On failure the completed steps are compensated in
// LIFO order; a step whose compensation also fails is marked stuck in
// the log for operator replay instead of disappearing into a warning.
type SagaCoordinator struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewSagaCoordinator(repo port.Repository, logger *zap.Logger) *SagaCoordinator {
	return &SagaCoordinator{repo: repo, logger: logger}
}

func (c *SagaCoordinator) Run(ctx context.Context, name string, steps []SagaStep) error {
	log := &domain.SagaLog{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    domain.SagaStatusRunning,
		Steps:     make([]domain.SagaStepRecord, len(steps)),
		CreatedAt: time.Now(),
	}
	for i, step := range steps {
		log.Steps[i] = domain.SagaStepRecord{Name: step.Name(), Status: domain.SagaStepPending}
	}
	log.UpdatedAt = log.CreatedAt

	if _, err := c.repo.CreateSagaLog(ctx, log); err != nil {
		c.logger.Error("create saga log", zap.String("saga", name), zap.Error(err))
		return domain.ErrInternal
	}

	var completed []int
	for i, step := range steps {
		c.logger.Debug("executing saga step",
			zap.String("saga", log.ID), zap.String("step", step.Name()))

		if err := step.Execute(ctx); err != nil {
			c.logger.Warn("saga step failed, compensating",
				zap.String("saga", log.ID), zap.String("step", step.Name()), zap.Error(err))

			log.Steps[i].Status = domain.SagaStepFailed
			log.Steps[i].Error = err.Error()
			log.Status = domain.SagaStatusCompensating
			c.persist(ctx, log)

			c.rollback(ctx, log, steps, completed)
			return err
		}

		log.Steps[i].Status = domain.SagaStepCompleted
		c.persist(ctx, log)
		completed = append(completed, i)
	}

	log.Status = domain.SagaStatusCompleted
	c.persist(ctx, log)
	return nil
}

func (c *SagaCoordinator) rollback(ctx context.Context, log *domain.SagaLog, steps []SagaStep, completed []int) {
	status := domain.SagaStatusCompensated
	for i := len(completed) - 1; i >= 0; i-- {
		idx := completed[i]
		step := steps[idx]

		if err := step.Compensate(ctx); err != nil {
			c.logger.Error("saga compensation failed",
				zap.String("saga", log.ID), zap.String("step", step.Name()), zap.Error(err))
			log.Steps[idx].Status = domain.SagaStepStuck
			log.Steps[idx].Error = err.Error()
			status = domain.SagaStatusFailed
			continue
		}
		log.Steps[idx].Status = domain.SagaStepCompensated
	}

	log.Status = status
	c.persist(ctx, log)
}

func (c *SagaCoordinator) persist(ctx context.Context, log *domain.SagaLog) {
	log.UpdatedAt = time.Now()
	if _, err := c.repo.UpdateSagaLog(ctx, log); err != nil {
		c.logger.Error("update saga log", zap.String("saga", log.ID), zap.Error(err))
	}
}
