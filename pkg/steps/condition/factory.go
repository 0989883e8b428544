package condition

import (
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Type() models.StepType {
	return models.StepCondition
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"variable": map[string]any{
				"type":        "string",
				"description": "Trigger-context field to test. Defaults to 'email'.",
			},
			"operator": map[string]any{
				"type":    "string",
				"default": models.OpContains,
				"enum": []string{
					models.OpContains, models.OpEquals, models.OpNotEquals,
					models.OpStartsWith, models.OpEndsWith,
					models.OpGreater, models.OpLess,
				},
			},
			"value": map[string]any{
				"description": "Literal to compare against.",
			},
		},
		"additionalProperties": false,
	}
}
