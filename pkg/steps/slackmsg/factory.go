package slackmsg

import (
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct {
	defaultWebhookURL string
}

func NewFactory(defaultWebhookURL string) *Factory {
	return &Factory{defaultWebhookURL: defaultWebhookURL}
}

func (f *Factory) Type() models.StepType {
	return models.StepSlack
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(step, f.defaultWebhookURL), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"webhook_url": map[string]any{
				"type":        "string",
				"description": "Incoming webhook URL. Defaults to SLACK_WEBHOOK_URL when omitted.",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message text. Supports {{field}} interpolation.",
			},
		},
		"additionalProperties": false,
	}
}
