package wait

import (
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Type() models.StepType {
	return models.StepWait
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(step), nil
}

func (f *Factory) Schema() map[string]any {
	// The delay lives on the step itself, not in config.
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
	}
}
