package ports

import (
	"context"

	"github.com/hiveml/hivehost/domain/entities"
)

// Trainer is the outbound port to the remote training orchestrator.
// Its contract (accepted arguments, failure modes) belongs to the remote
// service; the host boundary only marshals into and out of it.
type Trainer interface {
	// StartTraining submits a run and returns the orchestrator's run ID.
	StartTraining(ctx context.Context, req entities.TrainingRequest) (string, error)

	// TrainingStatus fetches the current status of a submitted run.
	TrainingStatus(ctx context.Context, runID string) (entities.TrainingStatus, error)

	// StopTraining requests cancellation of a submitted run.
	StopTraining(ctx context.Context, runID string) error
}
