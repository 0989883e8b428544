// Package channels defines the provider contract that normalizes heterogeneous
// messaging surfaces (Messenger, Instagram, WhatsApp, ...) behind one send/receive
// interface, plus the process-wide registry that routes outbound sends.
package channels

import (
	"context"
	"net/http"
	"net/url"
)

// ChannelType identifies an external messaging surface.
type ChannelType string

const (
	ChannelMessenger ChannelType = "MESSENGER"
	ChannelInstagram ChannelType = "INSTAGRAM"
	ChannelWhatsApp  ChannelType = "WHATSAPP"
	ChannelTwitter   ChannelType = "TWITTER"
	ChannelLinkedIn  ChannelType = "LINKEDIN"
	ChannelYouTube   ChannelType = "YOUTUBE"
	ChannelEmail     ChannelType = "EMAIL" // lead-ad submissions are normalized as email leads
)

// OutboundMessage is the channel-agnostic send request.
type OutboundMessage struct {
	ConversationID string   `json:"conversation_id"`
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments,omitempty"`
	ReplyToID      string   `json:"reply_to_id,omitempty"`
}

// ProcessingResult is the typed outcome of a send. Provider failures are
// surfaced here, never as panics or errors crossing the registry boundary.
type ProcessingResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Sender describes who produced an inbound message.
type Sender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// InboundMessage is a normalized message extracted from a channel webhook.
type InboundMessage struct {
	Channel    ChannelType    `json:"channel"`
	ExternalID string         `json:"external_id"`
	Content    string         `json:"content"`
	Sender     Sender         `json:"sender"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// WebhookRequest carries the parts of an HTTP webhook request providers need:
// the raw body (required for signature verification) plus query and headers.
type WebhookRequest struct {
	Method string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Provider is the per-channel capability contract. Implementations must
// tolerate missing credentials by failing gracefully or operating in a
// declared mock mode; they never panic on malformed payloads.
type Provider interface {
	// Channel returns the channel identifier this provider serves.
	Channel() ChannelType

	// SendMessage delivers one outbound message. All failures are reported
	// in the result, never returned as an error.
	SendMessage(ctx context.Context, msg OutboundMessage) ProcessingResult

	// ValidateWebhook confirms the GET subscription handshake
	// (hub.mode=subscribe with a matching hub.verify_token).
	ValidateWebhook(req *WebhookRequest) bool

	// VerifySignature checks the payload signature over the raw body.
	// Providers without a configured secret operate in a documented
	// degraded-security mode: they log loudly and allow the request.
	VerifySignature(req *WebhookRequest) bool

	// ParseWebhook extracts a normalized inbound message, or nil when the
	// payload does not match a known event shape.
	ParseWebhook(req *WebhookRequest) *InboundMessage
}
