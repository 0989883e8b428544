package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// WhatsAppConfig carries the WhatsApp Cloud API credentials. API tokens here
// are system-user tokens, distinct from page access tokens.
type WhatsAppConfig struct {
	APIToken      string
	PhoneNumberID string
	VerifyToken   string
	AppSecret     string
	GraphBaseURL  string
}

// WhatsAppProvider serves WhatsApp conversations through the Cloud API.
// Without credentials it operates in a declared mock mode: sends report a
// simulated success after an artificial delay so development flows keep
// moving without a Meta account.
type WhatsAppProvider struct {
	config WhatsAppConfig
	graph  *graphClient
	logger *slog.Logger
}

const whatsappMockDelay = 500 * time.Millisecond

func NewWhatsAppProvider(config WhatsAppConfig, logger *slog.Logger) *WhatsAppProvider {
	return &WhatsAppProvider{
		config: config,
		graph:  newGraphClient(config.GraphBaseURL),
		logger: logger.With("module", "whatsapp_provider"),
	}
}

func (p *WhatsAppProvider) Channel() ChannelType {
	return ChannelWhatsApp
}

func (p *WhatsAppProvider) mockMode() bool {
	return p.config.APIToken == "" || p.config.PhoneNumberID == ""
}

func (p *WhatsAppProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Sending WhatsApp message", "conversation_id", msg.ConversationID)

	if p.mockMode() {
		p.logger.Warn("WhatsApp credentials missing, mocking send success")

		select {
		case <-time.After(whatsappMockDelay):
		case <-ctx.Done():
		}

		return ProcessingResult{
			Success:   true,
			MessageID: fmt.Sprintf("wa-mock-%d", time.Now().UnixMilli()),
		}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.ConversationID, // phone number
		"text":              map[string]string{"body": msg.Content},
	}

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}

	path := "/" + p.config.PhoneNumberID + "/messages"
	if err := p.graph.post(ctx, path, p.config.APIToken, payload, &out); err != nil {
		p.logger.Error("WhatsApp send failed", "error", err)

		return ProcessingResult{Success: false, Error: err.Error()}
	}

	result := ProcessingResult{Success: true}
	if len(out.Messages) > 0 {
		result.MessageID = out.Messages[0].ID
	}

	return result
}

func (p *WhatsAppProvider) ValidateWebhook(req *WebhookRequest) bool {
	return validateSubscribe(req, p.config.VerifyToken)
}

func (p *WhatsAppProvider) VerifySignature(req *WebhookRequest) bool {
	return verifyHubSignature(req, p.config.AppSecret, p.logger)
}

type whatsappWebhookBody struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (p *WhatsAppProvider) ParseWebhook(req *WebhookRequest) *InboundMessage {
	var body whatsappWebhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		p.logger.Error("Failed to parse WhatsApp webhook", "error", err)

		return nil
	}

	if body.Object != "whatsapp_business_account" {
		return nil
	}

	for _, entry := range body.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}

			msg := change.Value.Messages[0]

			content := "[Media/Template]"
			if msg.Text != nil && msg.Text.Body != "" {
				content = msg.Text.Body
			}

			senderName := "WhatsApp User"
			if len(change.Value.Contacts) > 0 && change.Value.Contacts[0].Profile.Name != "" {
				senderName = change.Value.Contacts[0].Profile.Name
			}

			return &InboundMessage{
				Channel:    ChannelWhatsApp,
				ExternalID: msg.From, // phone number
				Content:    content,
				Sender:     Sender{ID: msg.From, Name: senderName},
				Metadata: map[string]any{
					"waba_id":         entry.ID,
					"message_id":      msg.ID,
					"phone_number_id": change.Value.Metadata.PhoneNumberID,
				},
			}
		}
	}

	return nil
}
