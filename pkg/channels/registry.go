package channels

import (
	"context"
	"fmt"
	"log/slog"
)

// Registry maps each channel identifier to exactly one provider instance.
// It is populated at process start and read-mostly afterwards; provider
// instances are stateless aside from configuration, so no locking is needed
// on the lookup path.
type Registry struct {
	logger    *slog.Logger
	providers map[ChannelType]Provider
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger.With("module", "channel_registry"),
		providers: make(map[ChannelType]Provider),
	}
}

// Register installs a provider for its channel, replacing any previous one.
func (r *Registry) Register(provider Provider) {
	r.providers[provider.Channel()] = provider
	r.logger.Info("Registered channel provider", "channel", provider.Channel())
}

// Get returns the provider for a channel, if registered.
func (r *Registry) Get(channel ChannelType) (Provider, bool) {
	provider, ok := r.providers[channel]

	return provider, ok
}

// Channels lists the registered channel identifiers.
func (r *Registry) Channels() []ChannelType {
	list := make([]ChannelType, 0, len(r.providers))
	for channel := range r.providers {
		list = append(list, channel)
	}

	return list
}

// SendMessage routes an outbound message to the channel's provider. An
// unregistered channel yields a typed failure, never an error or panic.
func (r *Registry) SendMessage(ctx context.Context, channel ChannelType, msg OutboundMessage) ProcessingResult {
	provider, ok := r.providers[channel]
	if !ok {
		r.logger.Warn("No provider registered for channel", "channel", channel)

		return ProcessingResult{
			Success: false,
			Error:   fmt.Sprintf("no provider for channel %s", channel),
		}
	}

	return provider.SendMessage(ctx, msg)
}
