package updatedeal

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/crm"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence/file"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestHandler_Execute_MovesDeal(t *testing.T) {
	persistence := file.NewPersistence(t.TempDir())
	service := crm.NewService(persistence, testLogger())

	err := persistence.SaveDeal(context.Background(), &models.Deal{
		ID:    "deal-1",
		Name:  "Acme",
		Stage: "QUALIFIED",
	})
	require.NoError(t, err)

	handler := NewHandler(service, &models.Step{
		Type:   models.StepUpdateDeal,
		Config: map[string]any{"stage": "WON"},
	})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"dealId": "deal-1"}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Details, "WON")

	deal, err := persistence.DealByID(context.Background(), "deal-1")
	require.NoError(t, err)
	assert.Equal(t, "WON", deal.Stage)
}

func TestHandler_Execute_MissingDealID(t *testing.T) {
	service := crm.NewService(file.NewPersistence(t.TempDir()), testLogger())
	handler := NewHandler(service, &models.Step{
		Type:   models.StepUpdateDeal,
		Config: map[string]any{"stage": "WON"},
	})

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Equal(t, "Missing Deal ID", outcome.Details)
}

func TestHandler_Execute_NoStageConfigured(t *testing.T) {
	service := crm.NewService(file.NewPersistence(t.TempDir()), testLogger())
	handler := NewHandler(service, &models.Step{Type: models.StepUpdateDeal})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"dealId": "deal-1"}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Equal(t, "No target stage configured", outcome.Details)
}

func TestHandler_Execute_UnknownDeal(t *testing.T) {
	service := crm.NewService(file.NewPersistence(t.TempDir()), testLogger())
	handler := NewHandler(service, &models.Step{
		Type:   models.StepUpdateDeal,
		Config: map[string]any{"stage": "WON"},
	})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"dealId": "ghost"}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Details, "not found")
}
