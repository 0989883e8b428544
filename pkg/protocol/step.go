// Package protocol defines the contracts between the run controller and the
// pluggable step handlers.
package protocol

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumamark/relay/pkg/models"
)

// StepOutcome is what a handler reports back to the run controller. Handlers
// return an outcome for expected domain results (SKIPPED, FAILED, FALSE) and
// reserve the error return for unexpected faults, which the controller
// records as ERROR without aborting the run.
type StepOutcome struct {
	Status  models.LogStatus
	Details string

	// StopRun stops the run after this step; remaining steps are recorded
	// as SKIPPED. Set by CONDITION handlers on a false evaluation.
	StopRun bool

	// Suspend pauses the run after this step and hands it to the durable
	// scheduler, which resumes it at ResumeAt from the next step. Set by
	// WAIT handlers whose delay exceeds the synchronous ceiling.
	Suspend  bool
	ResumeAt time.Time
}

// StepHandler executes one step instance against the run's execution context.
// Handlers may set run variables through the context for later steps to read.
type StepHandler interface {
	Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (StepOutcome, error)
}

// StepHandlerFactory creates handler instances bound to a concrete step and
// describes the step type it serves.
type StepHandlerFactory interface {
	// Create returns a handler bound to the given step definition.
	Create(step *models.Step) (StepHandler, error)

	// Type returns the step type this factory serves.
	Type() models.StepType

	// Schema returns the JSON schema for the step's Config, enforced when
	// a workflow definition is saved.
	Schema() map[string]any
}
