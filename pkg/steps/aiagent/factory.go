package aiagent

import (
	"github.com/lumamark/relay/pkg/ai"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct {
	agent ai.Agent
}

func NewFactory(agent ai.Agent) *Factory {
	return &Factory{agent: agent}
}

func (f *Factory) Type() models.StepType {
	return models.StepAIAgent
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(f.agent, step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type":    "string",
				"default": ModeSentiment,
				"enum":    []string{ModeSentiment, ModeGeneration},
			},
			"input": map[string]any{
				"type":        "string",
				"description": "Input text. Supports {{field}} interpolation; falls back to the trigger's message field.",
			},
		},
		"additionalProperties": false,
	}
}
