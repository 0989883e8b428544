// Package notification provides the SEND_NOTIFICATION workflow step,
// recording an in-app notification for the responsible user.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/crm"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

type Handler struct {
	service *crm.Service
	title   string
	message string
}

func NewHandler(service *crm.Service, step *models.Step) *Handler {
	return &Handler{
		service: service,
		title:   step.ConfigString("title", "Workflow notification"),
		message: step.ConfigString("message", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "send_notification")

	userID := executionCtx.LookupString("userId", "user_id", "ownerId", "assignedTo")

	title := template.RenderWithContext(h.title, executionCtx)
	message := template.RenderWithContext(h.message, executionCtx)

	_, err := h.service.Notify(ctx, userID, title, message)
	if err != nil {
		if errors.Is(err, crm.ErrMissingIdentifiers) {
			return protocol.StepOutcome{
				Status:  models.LogStatusFailed,
				Details: "Missing User ID",
			}, nil
		}

		return protocol.StepOutcome{}, err
	}

	logger.InfoContext(ctx, "Notification sent", "user_id", userID)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("Notification sent to user %s", userID),
	}, nil
}
