// Package updatedeal provides the UPDATE_DEAL workflow step, moving the
// triggering deal to a configured stage.
package updatedeal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/crm"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/protocol"
)

type Handler struct {
	service *crm.Service
	stage   string
}

func NewHandler(service *crm.Service, step *models.Step) *Handler {
	return &Handler{
		service: service,
		stage:   step.ConfigString("stage", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "update_deal")

	dealID := executionCtx.LookupString("dealId", "deal_id", "id")
	if dealID == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: "Missing Deal ID",
		}, nil
	}

	if h.stage == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: "No target stage configured",
		}, nil
	}

	deal, err := h.service.UpdateDealStage(ctx, dealID, h.stage)
	if err != nil {
		if persistence.IsDealNotFound(err) {
			return protocol.StepOutcome{
				Status:  models.LogStatusFailed,
				Details: fmt.Sprintf("Deal %s not found", dealID),
			}, nil
		}

		return protocol.StepOutcome{}, err
	}

	logger.InfoContext(ctx, "Deal stage updated", "deal_id", deal.ID, "stage", deal.Stage)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("Deal %s moved to %s", deal.ID, deal.Stage),
	}, nil
}
