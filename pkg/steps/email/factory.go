package email

import (
	"github.com/lumamark/relay/pkg/email"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

type Factory struct {
	mailer email.Mailer
}

func NewFactory(mailer email.Mailer) *Factory {
	return &Factory{mailer: mailer}
}

func (f *Factory) Type() models.StepType {
	return models.StepEmail
}

func (f *Factory) Create(step *models.Step) (protocol.StepHandler, error) {
	return NewHandler(f.mailer, step), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject. Supports {{field}} interpolation against trigger data.",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "HTML body. Supports {{field}} interpolation against trigger data.",
			},
			"from": map[string]any{
				"type":        "string",
				"description": "Sender address. Defaults to the configured sender when omitted.",
			},
		},
		"additionalProperties": false,
	}
}
