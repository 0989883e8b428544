// Package aiagent provides the AI_AGENT workflow step. Outputs are written
// into run variables so downstream steps can branch on them.
package aiagent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lumamark/relay/pkg/ai"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

// Modes supported by the step.
const (
	ModeSentiment  = "SENTIMENT"
	ModeGeneration = "GENERATION"
)

// Variables the step writes for downstream steps.
const (
	VarSentiment = "ai_sentiment"
	VarResponse  = "ai_response"
)

type Handler struct {
	agent ai.Agent
	mode  string
	input string
}

func NewHandler(agent ai.Agent, step *models.Step) *Handler {
	return &Handler{
		agent: agent,
		mode:  strings.ToUpper(step.ConfigString("mode", ModeSentiment)),
		input: step.ConfigString("input", ""),
	}
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "ai_agent", "mode", h.mode)

	input := template.RenderWithContext(h.input, executionCtx)
	if input == "" {
		input = executionCtx.LookupString("message", "content", "text")
	}

	if input == "" {
		return protocol.StepOutcome{
			Status:  models.LogStatusSkipped,
			Details: "No input text found",
		}, nil
	}

	switch h.mode {
	case ModeSentiment:
		sentiment, err := h.agent.AnalyzeSentiment(ctx, input)
		if err != nil {
			return protocol.StepOutcome{}, err
		}

		executionCtx.SetVariable(VarSentiment, sentiment)
		logger.InfoContext(ctx, "Sentiment analyzed", "sentiment", sentiment)

		return protocol.StepOutcome{
			Status:  models.LogStatusSuccess,
			Details: fmt.Sprintf("Sentiment: %s", sentiment),
		}, nil
	case ModeGeneration:
		reply, err := h.agent.GenerateReply(ctx, input)
		if err != nil {
			return protocol.StepOutcome{}, err
		}

		executionCtx.SetVariable(VarResponse, reply)
		logger.InfoContext(ctx, "Reply generated", "length", len(reply))

		return protocol.StepOutcome{
			Status:  models.LogStatusSuccess,
			Details: "Response generated",
		}, nil
	default:
		return protocol.StepOutcome{}, fmt.Errorf("unsupported AI mode %q", h.mode)
	}
}
