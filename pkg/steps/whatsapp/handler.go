// Package whatsapp provides the WHATSAPP workflow step, delivering a message
// through the channel provider registry.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/channels"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

type Handler struct {
	registry *channels.Registry
	message  string
}

func NewHandler(registry *channels.Registry, step *models.Step) *Handler {
	return &Handler{
		registry: registry,
		message:  step.ConfigString("message", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "whatsapp")

	recipient := executionCtx.LookupString("phone", "phoneNumber", "phone_number", "conversationId")
	if recipient == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusSkipped,
			Details: "No phone number found",
		}, nil
	}

	message := template.RenderWithContext(h.message, executionCtx)

	result := h.registry.SendMessage(ctx, channels.ChannelWhatsApp, channels.OutboundMessage{
		ConversationID: recipient,
		Content:        message,
	})
	if !result.Success {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: fmt.Sprintf("Failed to send WhatsApp message: %s", result.Error),
		}, nil
	}

	logger.InfoContext(ctx, "WhatsApp message sent", "to", recipient, "message_id", result.MessageID)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("WhatsApp message sent to %s (%s)", recipient, result.MessageID),
	}, nil
}
