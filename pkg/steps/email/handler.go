// Package email provides the EMAIL workflow step, delivering templated mail
// to the contact resolved from the trigger data.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/email"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

// Handler sends one email per execution. A run with no resolvable recipient
// is a skip, not a failure: trigger payloads legitimately omit contacts.
type Handler struct {
	mailer  email.Mailer
	subject string
	body    string
	from    string
}

func NewHandler(mailer email.Mailer, step *models.Step) *Handler {
	return &Handler{
		mailer:  mailer,
		subject: step.ConfigString("subject", "Workflow notification"),
		body:    step.ConfigString("body", ""),
		from:    step.ConfigString("from", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "email")

	recipient := executionCtx.LookupString("email", "contactEmail", "contact_email")
	if recipient == "" {
		logger.InfoContext(ctx, "No recipient resolved, skipping email")

		return protocol.StepOutcome{
			Status:  models.LogStatusSkipped,
			Details: "No email address found",
		}, nil
	}

	subject := template.RenderWithContext(h.subject, executionCtx)
	body := template.RenderWithContext(h.body, executionCtx)

	messageID, err := h.mailer.Send(ctx, email.Message{
		From:    h.from,
		To:      []string{recipient},
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: fmt.Sprintf("Failed to send email to %s: %v", recipient, err),
		}, nil
	}

	logger.InfoContext(ctx, "Email sent", "to", recipient, "message_id", messageID)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("Email sent to %s (%s)", recipient, messageID),
	}, nil
}
