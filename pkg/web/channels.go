package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/lumamark/relay/pkg/channels"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/workflow"
)

// ChannelHandlers exposes the per-channel webhook endpoints. Inbound messages
// are normalized by the channel's provider and fed into the trigger
// dispatcher.
type ChannelHandlers struct {
	registry   *channels.Registry
	dispatcher *workflow.Dispatcher
	logger     *slog.Logger
}

func NewChannelHandlers(registry *channels.Registry, dispatcher *workflow.Dispatcher, logger *slog.Logger) *ChannelHandlers {
	return &ChannelHandlers{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger.With("module", "channel_webhooks"),
	}
}

// VerifyWebhook serves the GET subscription handshake. Meta platforms expect
// the hub.challenge echoed back verbatim on success.
func (h *ChannelHandlers) VerifyWebhook(c fiber.Ctx) error {
	provider, ok := h.provider(c)
	if !ok {
		return notFound(c, "unknown channel")
	}

	req := webhookRequest(c)

	if !provider.ValidateWebhook(req) {
		h.logger.Warn("Webhook verification rejected", "channel", provider.Channel())

		return c.SendStatus(fiber.StatusForbidden)
	}

	return c.SendString(req.Query.Get("hub.challenge"))
}

// ReceiveWebhook serves the POST event delivery: signature check, payload
// parsing, then trigger dispatch for each normalized message.
func (h *ChannelHandlers) ReceiveWebhook(c fiber.Ctx) error {
	provider, ok := h.provider(c)
	if !ok {
		return notFound(c, "unknown channel")
	}

	req := webhookRequest(c)

	if !provider.VerifySignature(req) {
		h.logger.Warn("Webhook signature rejected", "channel", provider.Channel())

		return c.SendStatus(fiber.StatusUnauthorized)
	}

	message := provider.ParseWebhook(req)
	if message == nil {
		// Unrecognized but authentic payload; acknowledge so the
		// platform does not retry.
		return c.SendString("EVENT_RECEIVED")
	}

	triggerType := models.TriggerMessageReceived
	if message.Channel == channels.ChannelEmail {
		// Lead-ad submissions enter as form submissions, not chat.
		triggerType = models.TriggerFormSubmitted
	}

	triggerData := map[string]any{
		"channel":    string(message.Channel),
		"message":    message.Content,
		"externalId": message.ExternalID,
		"senderId":   message.Sender.ID,
		"senderName": message.Sender.Name,
	}

	for key, value := range message.Metadata {
		triggerData[key] = value
	}

	result, err := h.dispatcher.Dispatch(c.Context(), triggerType, triggerData)
	if err != nil {
		h.logger.Error("Failed to dispatch inbound message", "channel", message.Channel, "error", err)

		return internalError(c, err)
	}

	h.logger.Info("Inbound message dispatched",
		"channel", message.Channel,
		"trigger_type", triggerType,
		"executed", result.Executed,
	)

	return c.SendString("EVENT_RECEIVED")
}

func (h *ChannelHandlers) provider(c fiber.Ctx) (channels.Provider, bool) {
	channel := channels.ChannelType(strings.ToUpper(c.Params("channel")))

	return h.registry.Get(channel)
}

// webhookRequest captures the parts of the request providers need, body
// included, since signature verification runs over the raw bytes.
func webhookRequest(c fiber.Ctx) *channels.WebhookRequest {
	query := url.Values{}
	for key, value := range c.Queries() {
		query.Set(key, value)
	}

	return &channels.WebhookRequest{
		Method: c.Method(),
		Query:  query,
		Header: http.Header(c.GetReqHeaders()),
		Body:   c.Body(),
	}
}
