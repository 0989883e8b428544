package email

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/email"
	"github.com/lumamark/relay/pkg/models"
)

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}

	m.sent = append(m.sent, msg)

	return "msg-123", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestHandler_Execute_SendsInterpolatedEmail(t *testing.T) {
	mailer := &fakeMailer{}
	handler := NewHandler(mailer, &models.Step{
		Type: models.StepEmail,
		Config: map[string]any{
			"subject": "Welcome {{name}}",
			"body":    "<p>Hi {{name}}</p>",
		},
	})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"email": "ana@empresa.com", "name": "Ana"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Details, "ana@empresa.com")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ana@empresa.com"}, mailer.sent[0].To)
	assert.Equal(t, "Welcome Ana", mailer.sent[0].Subject)
	assert.Equal(t, "<p>Hi Ana</p>", mailer.sent[0].HTML)
}

func TestHandler_Execute_NoRecipientSkips(t *testing.T) {
	mailer := &fakeMailer{}
	handler := NewHandler(mailer, &models.Step{Type: models.StepEmail})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"name": "Ana"}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSkipped, outcome.Status)
	assert.Equal(t, "No email address found", outcome.Details)
	assert.Empty(t, mailer.sent)
}

func TestHandler_Execute_RecipientFallbackKeys(t *testing.T) {
	mailer := &fakeMailer{}
	handler := NewHandler(mailer, &models.Step{Type: models.StepEmail})

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"contactEmail": "bruno@empresa.com"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"bruno@empresa.com"}, mailer.sent[0].To)
}

func TestHandler_Execute_SendFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("provider down")}
	handler := NewHandler(mailer, &models.Step{Type: models.StepEmail})

	execCtx := &models.ExecutionContext{TriggerData: map[string]any{"email": "ana@empresa.com"}}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Details, "provider down")
}
