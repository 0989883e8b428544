// Package slackmsg provides the SLACK workflow step, posting an interpolated
// message through an incoming webhook.
package slackmsg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

// postWebhook is swapped in tests.
var postWebhook = slack.PostWebhookContext

type Handler struct {
	webhookURL string
	message    string
}

func NewHandler(step *models.Step, defaultWebhookURL string) *Handler {
	return &Handler{
		webhookURL: step.ConfigString("webhook_url", defaultWebhookURL),
		message:    step.ConfigString("message", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "slack")

	if h.webhookURL == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: "No Slack webhook URL configured",
		}, nil
	}

	message := template.RenderWithContext(h.message, executionCtx)

	err := postWebhook(ctx, h.webhookURL, &slack.WebhookMessage{Text: message})
	if err != nil {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: fmt.Sprintf("Failed to post to Slack: %v", err),
		}, nil
	}

	logger.InfoContext(ctx, "Slack message posted")

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: "Slack message posted",
	}, nil
}
