package slackmsg

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestHandler_Execute_PostsRenderedMessage(t *testing.T) {
	var gotURL, gotText string

	original := postWebhook
	postWebhook = func(_ context.Context, url string, msg *slack.WebhookMessage) error {
		gotURL = url
		gotText = msg.Text

		return nil
	}

	defer func() { postWebhook = original }()

	handler := NewHandler(&models.Step{
		Type: models.StepSlack,
		Config: map[string]any{
			"webhook_url": "https://hooks.slack.com/services/T/B/X",
			"message":     "Deal {{name}} moved to {{stage}}",
		},
	}, "")

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"name": "Acme", "stage": "WON"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", gotURL)
	assert.Equal(t, "Deal Acme moved to WON", gotText)
}

func TestHandler_Execute_NoWebhookURL(t *testing.T) {
	handler := NewHandler(&models.Step{Type: models.StepSlack}, "")

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Equal(t, "No Slack webhook URL configured", outcome.Details)
}

func TestHandler_Execute_DefaultWebhookURL(t *testing.T) {
	var gotURL string

	original := postWebhook
	postWebhook = func(_ context.Context, url string, _ *slack.WebhookMessage) error {
		gotURL = url

		return nil
	}

	defer func() { postWebhook = original }()

	handler := NewHandler(&models.Step{Type: models.StepSlack}, "https://hooks.slack.com/services/default")

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Equal(t, "https://hooks.slack.com/services/default", gotURL)
}

func TestHandler_Execute_PostFailure(t *testing.T) {
	original := postWebhook
	postWebhook = func(_ context.Context, _ string, _ *slack.WebhookMessage) error {
		return errors.New("channel_not_found")
	}

	defer func() { postWebhook = original }()

	handler := NewHandler(&models.Step{
		Type:   models.StepSlack,
		Config: map[string]any{"webhook_url": "https://hooks.slack.com/services/T/B/X"},
	}, "")

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Details, "channel_not_found")
}
