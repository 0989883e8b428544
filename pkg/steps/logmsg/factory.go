package logmsg

import (
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Type() models.StepType {
	return models.StepLog
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to record. Supports {{field}} interpolation.",
			},
		},
		"additionalProperties": false,
	}
}
