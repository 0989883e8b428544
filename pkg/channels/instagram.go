package channels

import (
	"context"
	"encoding/json"
	"log/slog"
)

// InstagramProvider serves Instagram DM conversations. Instagram messaging
// shares the Messenger Graph API surface; the conversation ID is an IGSID.
type InstagramProvider struct {
	config FacebookConfig
	graph  *graphClient
	logger *slog.Logger
}

func NewInstagramProvider(config FacebookConfig, logger *slog.Logger) *InstagramProvider {
	return &InstagramProvider{
		config: config,
		graph:  newGraphClient(config.GraphBaseURL),
		logger: logger.With("module", "instagram_provider"),
	}
}

func (p *InstagramProvider) Channel() ChannelType {
	return ChannelInstagram
}

func (p *InstagramProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Sending Instagram message", "conversation_id", msg.ConversationID)

	if p.config.PageAccessToken == "" {
		return ProcessingResult{Success: false, Error: "no page access token configured"}
	}

	payload := map[string]any{
		"recipient": map[string]string{"id": msg.ConversationID},
		"message":   map[string]string{"text": msg.Content},
	}

	var out struct {
		MessageID string `json:"message_id"`
	}

	if err := p.graph.post(ctx, "/me/messages", p.config.PageAccessToken, payload, &out); err != nil {
		p.logger.Error("Instagram send failed", "error", err)

		return ProcessingResult{Success: false, Error: err.Error()}
	}

	return ProcessingResult{Success: true, MessageID: out.MessageID}
}

func (p *InstagramProvider) ValidateWebhook(req *WebhookRequest) bool {
	return validateSubscribe(req, p.config.VerifyToken)
}

func (p *InstagramProvider) VerifySignature(req *WebhookRequest) bool {
	return verifyHubSignature(req, p.config.AppSecret, p.logger)
}

func (p *InstagramProvider) ParseWebhook(req *WebhookRequest) *InboundMessage {
	var body pageWebhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		p.logger.Error("Failed to parse Instagram webhook", "error", err)

		return nil
	}

	if body.Object != "instagram" {
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
				Channel:    ChannelInstagram,
				ExternalID: event.Sender.ID,
				Content:    content,
				Sender:     Sender{ID: event.Sender.ID, Name: "Instagram User"},
				Metadata: map[string]any{
					"page_id":    entry.ID,
					"message_id": event.Message.MID,
				},
			}
		}
	}

	return nil
}
