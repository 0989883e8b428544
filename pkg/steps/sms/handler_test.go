package sms

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

func TestHandler_Execute_SendsRenderedMessage(t *testing.T) {
	handler := NewHandler(&models.Step{
		Type:   models.StepSMS,
		Config: map[string]any{"message": "Hi {{name}}"},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"phone": "+5511999990000", "name": "Rafael"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Details, "+5511999990000")
	assert.Contains(t, outcome.Details, "sms-mock-")
}

func TestHandler_Execute_NoPhoneSkips(t *testing.T) {
	handler := NewHandler(&models.Step{Type: models.StepSMS, Config: map[string]any{"message": "hello"}})

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{TriggerData: map[string]any{}}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSkipped, outcome.Status)
	assert.Equal(t, "No phone number found", outcome.Details)
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	handler := NewHandler(&models.Step{Type: models.StepSMS, Config: map[string]any{"message": "hello"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"phone": "+5511999990000"}}

	_, err := handler.Execute(ctx, execCtx, testLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
