package ai

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIAgent_MockMode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	agent := NewOpenAIAgent(logger, "", "")

	sentiment, err := agent.AnalyzeSentiment(context.Background(), "estou muito feliz")
	require.NoError(t, err)
	assert.Equal(t, "NEUTRAL", sentiment)

	reply, err := agent.GenerateReply(context.Background(), "qual o preço?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestNewOpenAIAgent_ModelDefault(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	agent := NewOpenAIAgent(logger, "", "")
	assert.Equal(t, defaultModel, agent.model)

	agent = NewOpenAIAgent(logger, "", "gpt-4o")
	assert.Equal(t, "gpt-4o", agent.model)
}
