package aiagent

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
)

type fakeAgent struct {
	sentiment string
	reply     string
	err       error
}

func (a *fakeAgent) AnalyzeSentiment(_ context.Context, _ string) (string, error) {
	return a.sentiment, a.err
}

func (a *fakeAgent) GenerateReply(_ context.Context, _ string) (string, error) {
	return a.reply, a.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestHandler_Execute_SentimentWritesVariable(t *testing.T) {
	handler := NewHandler(&fakeAgent{sentiment: "NEGATIVE"}, &models.Step{
		Type:   models.StepAIAgent,
		Config: map[string]any{"mode": "SENTIMENT"},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"message": "estou muito insatisfeito"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Details, "NEGATIVE")
	assert.Equal(t, "NEGATIVE", execCtx.Variables[VarSentiment])
}

func TestHandler_Execute_GenerationWritesVariable(t *testing.T) {
	handler := NewHandler(&fakeAgent{reply: "Obrigado pelo contato!"}, &models.Step{
		Type:   models.StepAIAgent,
		Config: map[string]any{"mode": "generation"},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"content": "qual o preço?"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Equal(t, "Obrigado pelo contato!", execCtx.Variables[VarResponse])
}

func TestHandler_Execute_ConfiguredInputWins(t *testing.T) {
	handler := NewHandler(&fakeAgent{sentiment: "POSITIVE"}, &models.Step{
		Type:   models.StepAIAgent,
		Config: map[string]any{"input": "{{feedback}}"},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"feedback": "adorei o produto", "message": "ignored"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
}

func TestHandler_Execute_NoInputSkips(t *testing.T) {
	handler := NewHandler(&fakeAgent{}, &models.Step{Type: models.StepAIAgent})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSkipped, outcome.Status)
	assert.Equal(t, "No input text found", outcome.Details)
}

func TestHandler_Execute_UnsupportedMode(t *testing.T) {
	handler := NewHandler(&fakeAgent{}, &models.Step{
		Type:   models.StepAIAgent,
		Config: map[string]any{"mode": "SUMMARIZE"},
	})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"message": "hi"}}

	_, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported AI mode")
}
