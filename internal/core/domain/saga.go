package domain

import "time"

type SagaStatus string

const (
	SagaStatusRunning      SagaStatus = "running"
	SagaStatusCompleted    SagaStatus = "completed"
	SagaStatusCompensated  SagaStatus = "compensated"
	SagaStatusCompensating SagaStatus = "compensating"
	SagaStatusFailed       SagaStatus = "failed"
)

type SagaStepStatus string

const (
	SagaStepPending     SagaStepStatus = "pending"
	SagaStepCompleted   SagaStepStatus = "completed"
	SagaStepFailed      SagaStepStatus = "failed"
	SagaStepCompensated SagaStepStatus = "compensated"
	// SagaStepStuck marks a step whose compensation also failed and
	// needs operator replay.
	SagaStepStuck SagaStepStatus = "stuck"
)

// SagaLog is the persisted record of one multi-entity transaction.
// Partial failures are recoverable from it instead of being lost in logs.
type SagaLog struct {
	ID        string
	Name      string
	Status    SagaStatus
	Steps     []SagaStepRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SagaStepRecord struct {
	Name   string         `json:"name"`
	Status SagaStepStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}
