package whatsapp

import (
	"github.com/lumamark/relay/pkg/channels"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct {
	registry *channels.Registry
}

func NewFactory(registry *channels.Registry) *Factory {
	return &Factory{registry: registry}
}

func (f *Factory) Type() models.StepType {
	return models.StepWhatsApp
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(f.registry, step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message text. Supports {{field}} interpolation.",
			},
		},
		"additionalProperties": false,
	}
}
