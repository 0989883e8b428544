// Package sms provides the SMS workflow step. Delivery runs against a mock
// gateway: messages are logged and assigned a mock ID, matching the behavior
// of the channel providers when no credentials are configured.
package sms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

const mockSendDelay = 500 * time.Millisecond

type Handler struct {
	message string
}

func NewHandler(step *models.Step) *Handler {
	return &Handler{message: step.ConfigString("message", "")}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "sms")

	phone := executionCtx.LookupString("phone", "phoneNumber", "phone_number")
	if phone == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusSkipped,
			Details: "No phone number found",
		}, nil
	}

	message := template.RenderWithContext(h.message, executionCtx)

	select {
	case <-ctx.Done():
		return protocol.StepOutcome{}, ctx.Err()
	case <-time.After(mockSendDelay):
	}

	messageID := fmt.Sprintf("sms-mock-%d", time.Now().UnixMilli())

	logger.InfoContext(ctx, "Mock SMS send", "to", phone, "length", len(message), "message_id", messageID)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("SMS sent to %s (%s)", phone, messageID),
	}, nil
}
