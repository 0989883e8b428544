// Package createtask provides the CREATE_TASK workflow step, recording a task
// on the triggering deal's timeline.
package createtask

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
	content string
}

func NewHandler(service *crm.Service, step *models.Step) *Handler {
	return &Handler{
		service: service,
		content: step.ConfigString("content", "Follow up"),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "create_task")

	dealID := executionCtx.LookupString("dealId", "deal_id", "id")
	userID := executionCtx.LookupString("userId", "user_id", "authorId", "assignedTo")

	content := template.RenderWithContext(h.content, executionCtx)

	task, err := h.service.CreateTask(ctx, dealID, userID, content)
	if err != nil {
		if errors.Is(err, crm.ErrMissingIdentifiers) {
			return protocol.StepOutcome{
				Status:  models.LogStatusFailed,
				Details: "Missing Deal ID or User ID",
			}, nil
		}

		return protocol.StepOutcome{}, err
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "deal_id", dealID)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("Task created on deal %s", dealID),
	}, nil
}
