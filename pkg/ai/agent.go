// Package ai wraps the OpenAI chat completion API behind the two operations
// workflow steps need: sentiment analysis and reply generation.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4oMini

// Agent performs the analysis operations AI steps rely on.
type Agent interface {
	// AnalyzeSentiment classifies the text as POSITIVE, NEGATIVE or NEUTRAL.
	AnalyzeSentiment(ctx context.Context, text string) (string, error)

	// GenerateReply drafts a response for the given prompt.
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// OpenAIAgent calls the OpenAI API. Without an API key it runs in mock mode
// and returns deterministic canned outputs, so local development and tests
// work without credentials.
type OpenAIAgent struct {
	client *openai.Client
	logger *slog.Logger
	model  string
}

func NewOpenAIAgent(logger *slog.Logger, apiKey, model string) *OpenAIAgent {
	agent := &OpenAIAgent{
		logger: logger.With("module", "ai"),
		model:  model,
	}

	if agent.model == "" {
		agent.model = defaultModel
	}

	if apiKey != "" {
		agent.client = openai.NewClient(apiKey)
	} else {
		agent.logger.Warn("OPENAI_API_KEY not set, running in mock mode")
	}

	return agent
}

func (a *OpenAIAgent) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	if a.client == nil {
		a.logger.Info("Mock sentiment analysis", "length", len(text))

		return "NEUTRAL", nil
	}

	content, err := a.complete(ctx,
		"You are a sentiment classifier. Answer with exactly one word: POSITIVE, NEGATIVE or NEUTRAL.",
		text,
	)
	if err != nil {
		return "", err
	}

	return strings.ToUpper(strings.TrimSpace(content)), nil
}

func (a *OpenAIAgent) GenerateReply(ctx context.Context, prompt string) (string, error) {
	if a.client == nil {
		a.logger.Info("Mock reply generation", "length", len(prompt))

		return "Thank you for reaching out. We will get back to you shortly.", nil
	}

	return a.complete(ctx,
		"You are a helpful assistant drafting short, professional replies for a sales team.",
		prompt,
	)
}

func (a *OpenAIAgent) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}
