package channels

import (
	"context"
	"encoding/json"
	"log/slog"
)

// FacebookConfig carries the credentials for a Messenger page integration.
// Zero values are tolerated: sends fail gracefully and webhook security runs
// in its documented degraded mode.
type FacebookConfig struct {
	PageAccessToken string
	VerifyToken     string
	AppSecret       string
	GraphBaseURL    string
}

// FacebookProvider serves Messenger conversations through the Graph API.
type FacebookProvider struct {
	config FacebookConfig
	graph  *graphClient
	logger *slog.Logger
}

func NewFacebookProvider(config FacebookConfig, logger *slog.Logger) *FacebookProvider {
	return &FacebookProvider{
		config: config,
		graph:  newGraphClient(config.GraphBaseURL),
		logger: logger.With("module", "facebook_provider"),
	}
}

func (p *FacebookProvider) Channel() ChannelType {
	return ChannelMessenger
}

func (p *FacebookProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Sending Messenger message", "conversation_id", msg.ConversationID)

	if p.config.PageAccessToken == "" {
		return ProcessingResult{Success: false, Error: "no page access token configured"}
	}

	payload := map[string]any{
		"recipient":      map[string]string{"id": msg.ConversationID},
		"message":        map[string]string{"text": msg.Content},
		"messaging_type": "RESPONSE",
	}

	var out struct {
		MessageID string `json:"message_id"`
	}

	if err := p.graph.post(ctx, "/me/messages", p.config.PageAccessToken, payload, &out); err != nil {
		p.logger.Error("Messenger send failed", "error", err)

		return ProcessingResult{Success: false, Error: err.Error()}
	}

	return ProcessingResult{Success: true, MessageID: out.MessageID}
}

func (p *FacebookProvider) ValidateWebhook(req *WebhookRequest) bool {
	return validateSubscribe(req, p.config.VerifyToken)
}

func (p *FacebookProvider) VerifySignature(req *WebhookRequest) bool {
	return verifyHubSignature(req, p.config.AppSecret, p.logger)
}

// pageWebhookBody mirrors the slice of the Messenger webhook payload the
// provider understands: messaging events plus leadgen change notifications.
type pageWebhookBody struct {
	Object string `json:"object"`
	Entry  []struct {
		ID        string `json:"id"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message *struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				LeadgenID string `json:"leadgen_id"`
				PageID    string `json:"page_id"`
				FormID    string `json:"form_id"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (p *FacebookProvider) ParseWebhook(req *WebhookRequest) *InboundMessage {
	var body pageWebhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		p.logger.Error("Failed to parse Messenger webhook", "error", err)

		return nil
	}

	if body.Object != "page" {
		return nil
	}

	for _, entry := range body.Entry {
		for _, event := range entry.Messaging {
			if event.Message == nil {
				continue
			}

			content := event.Message.Text
			if content == "" {
				content = "[Attachment]"
			}

			return &InboundMessage{
				Channel:    ChannelMessenger,
				ExternalID: event.Sender.ID,
				Content:    content,
				Sender:     Sender{ID: event.Sender.ID, Name: "Facebook User"},
				Metadata: map[string]any{
					"page_id":    entry.ID,
					"message_id": event.Message.MID,
				},
			}
		}

		for _, change := range entry.Changes {
			if change.Field != "leadgen" {
				continue
			}

			p.logger.Info("New lead ad submission", "leadgen_id", change.Value.LeadgenID)

			return &InboundMessage{
				Channel:    ChannelEmail,
				ExternalID: change.Value.LeadgenID,
				Content:    "New Lead Ad Submission: " + change.Value.LeadgenID,
				Sender:     Sender{ID: "system", Name: "Meta Lead Ads"},
				Metadata: map[string]any{
					"type":       "LEAD_AD",
					"leadgen_id": change.Value.LeadgenID,
					"form_id":    change.Value.FormID,
					"page_id":    change.Value.PageID,
				},
			}
		}
	}

	return nil
}
