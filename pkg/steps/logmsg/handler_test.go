package logmsg

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestHandler_Execute_RendersMessage(t *testing.T) {
	handler := NewHandler(&models.Step{
		Type:   models.StepLog,
		Config: map[string]any{"message": "Deal {{dealId}} reached {{stage}}"},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"dealId": "deal-42", "stage": "WON"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Equal(t, "Deal deal-42 reached WON", outcome.Details)
}

func TestHandler_Execute_EmptyMessage(t *testing.T) {
	handler := NewHandler(&models.Step{Type: models.StepLog, Config: map[string]any{}})

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Empty(t, outcome.Details)
}
