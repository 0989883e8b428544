// Package logmsg provides the LOG workflow step, recording an interpolated
// message in the run log.
package logmsg

import (
	"context"
	"log/slog"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

type Handler struct {
	message string
}

func NewHandler(step *models.Step) *Handler {
	return &Handler{message: step.ConfigString("message", "")}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	rendered := template.RenderWithContext(h.message, executionCtx)

	logger.InfoContext(ctx, "Workflow log step", "message", rendered)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: rendered,
	}, nil
}
