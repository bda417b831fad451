package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port/mock"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordedStep struct {
	name         string
	failExecute  error
	failRollback error
	trail        *[]string
}

func (s *recordedStep) Name() string { return s.name }

func (s *recordedStep) Execute(ctx context.Context) error {
	if s.failExecute != nil {
		return s.failExecute
	}
	*s.trail = append(*s.trail, "exec:"+s.name)
	return nil
}

func (s *recordedStep) Compensate(ctx context.Context) error {
	if s.failRollback != nil {
		return s.failRollback
	}
	*s.trail = append(*s.trail, "undo:"+s.name)
	return nil
}

func TestSagaCoordinator_Run(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	captureLog := func(repo *mock.MockRepository, last **domain.SagaLog) {
		repo.EXPECT().CreateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
				*last = log
				return log, nil
			})
		repo.EXPECT().UpdateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
				*last = log
				return log, nil
			}).AnyTimes()
	}

	t.Run("All steps complete", func(t *testing.T) {
		var trail []string
		var last *domain.SagaLog

		repo := mock.NewMockRepository(mockCtrl)
		captureLog(repo, &last)

		c := service.NewSagaCoordinator(repo, zap.NewNop())
		err := c.Run(context.Background(), "sale", []service.SagaStep{
			&recordedStep{name: "a", trail: &trail},
			&recordedStep{name: "b", trail: &trail},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"exec:a", "exec:b"}, trail)
		assert.Equal(t, domain.SagaStatusCompleted, last.Status)
		assert.Equal(t, domain.SagaStepCompleted, last.Steps[0].Status)
		assert.Equal(t, domain.SagaStepCompleted, last.Steps[1].Status)
	})

	t.Run("Failure compensates completed steps in reverse", func(t *testing.T) {
		var trail []string
		var last *domain.SagaLog
		boom := errors.New("boom")

		repo := mock.NewMockRepository(mockCtrl)
		captureLog(repo, &last)

		c := service.NewSagaCoordinator(repo, zap.NewNop())
		err := c.Run(context.Background(), "sale", []service.SagaStep{
			&recordedStep{name: "a", trail: &trail},
			&recordedStep{name: "b", trail: &trail},
			&recordedStep{name: "c", failExecute: boom, trail: &trail},
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"exec:a", "exec:b", "undo:b", "undo:a"}, trail)
		assert.Equal(t, domain.SagaStatusCompensated, last.Status)
		assert.Equal(t, domain.SagaStepCompensated, last.Steps[0].Status)
		assert.Equal(t, domain.SagaStepCompensated, last.Steps[1].Status)
		assert.Equal(t, domain.SagaStepFailed, last.Steps[2].Status)
	})

	t.Run("Stuck compensation is recorded, rollback continues", func(t *testing.T) {
		var trail []string
		var last *domain.SagaLog
		boom := errors.New("boom")

		repo := mock.NewMockRepository(mockCtrl)
		captureLog(repo, &last)

		c := service.NewSagaCoordinator(repo, zap.NewNop())
		err := c.Run(context.Background(), "sale", []service.SagaStep{
			&recordedStep{name: "a", trail: &trail},
			&recordedStep{name: "b", failRollback: errors.New("undo failed"), trail: &trail},
			&recordedStep{name: "c", failExecute: boom, trail: &trail},
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"exec:a", "exec:b", "undo:a"}, trail)
		assert.Equal(t, domain.SagaStatusFailed, last.Status)
		assert.Equal(t, domain.SagaStepCompensated, last.Steps[0].Status)
		assert.Equal(t, domain.SagaStepStuck, last.Steps[1].Status)
	})
}
