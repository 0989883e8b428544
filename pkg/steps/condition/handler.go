// Package condition provides the CONDITION workflow step. A false evaluation
// stops the run; the controller marks the remaining steps as skipped.
package condition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Handler struct {
	condition models.Condition
}

func NewHandler(step *models.Step) *Handler {
	return &Handler{condition: models.ConditionFromConfig(step.Config)}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "condition")

	matched, err := h.condition.Evaluate(executionCtx)
	if err != nil {
		return protocol.StepOutcome{}, err
	}

	details := fmt.Sprintf("%s %s %q", h.condition.Variable, h.condition.Operator, h.condition.Value)

	if !matched {
		logger.InfoContext(ctx, "Condition not met, stopping run", "condition", details)

		return protocol.StepOutcome{
			Status:  models.LogStatusFalse,
			Details: details,
			StopRun: true,
		}, nil
	}

	logger.InfoContext(ctx, "Condition met", "condition", details)

	return protocol.StepOutcome{
		Status:  models.LogStatusTrue,
		Details: details,
	}, nil
}
