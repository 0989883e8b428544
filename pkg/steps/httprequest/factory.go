package httprequest

import (
	"net/http"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Type() models.StepType {
	return models.StepHTTP
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(step)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL to call. Supports {{field}} interpolation.",
			},
			"method": map[string]any{
				"type":    "string",
				"default": http.MethodGet,
				"enum": []string{
					http.MethodGet, http.MethodPost, http.MethodPut,
					http.MethodPatch, http.MethodDelete, http.MethodHead,
				},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers. Values support {{field}} interpolation.",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports {{field}} interpolation.",
			},
			"retry": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 5,
					},
					"delay": map[string]any{
						"type":        "integer",
						"description": "Delay between attempts in seconds.",
						"minimum":     0,
					},
				},
			},
		},
		"required":             []string{"url"},
		"additionalProperties": false,
	}
}
