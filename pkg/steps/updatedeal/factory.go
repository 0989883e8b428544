package updatedeal

import (
	"github.com/lumamark/relay/pkg/crm"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct {
	service *crm.Service
}

func NewFactory(service *crm.Service) *Factory {
	return &Factory{service: service}
}

func (f *Factory) Type() models.StepType {
	return models.StepUpdateDeal
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(f.service, step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stage": map[string]any{
				"type":        "string",
				"description": "Stage to move the deal to.",
			},
		},
		"required":             []string{"stage"},
		"additionalProperties": false,
	}
}
