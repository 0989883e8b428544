package cmd

import (
	"log/slog"
	"os"

	"github.com/lumamark/relay/pkg/channels"
)

// NewChannelRegistry builds the messaging-channel registry with every
// supported provider. Credentials come from the environment; providers whose
// integration lacks credentials run in their documented mock or degraded
// mode, so the registry is always fully populated.
func NewChannelRegistry(logger *slog.Logger) *channels.Registry {
	registry := channels.NewRegistry(logger)

	metaConfig := channels.FacebookConfig{
		PageAccessToken: os.Getenv("FB_PAGE_ACCESS_TOKEN"),
		VerifyToken:     os.Getenv("FB_VERIFY_TOKEN"),
		AppSecret:       os.Getenv("FB_APP_SECRET"),
	}

	registry.Register(channels.NewFacebookProvider(metaConfig, logger))
	registry.Register(channels.NewInstagramProvider(metaConfig, logger))

	registry.Register(channels.NewWhatsAppProvider(channels.WhatsAppConfig{
		APIToken:      os.Getenv("WHATSAPP_API_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		AppSecret:     metaConfig.AppSecret,
	}, logger))

	registry.Register(channels.NewTwitterProvider(os.Getenv("TWITTER_API_KEY"), logger))
	registry.Register(channels.NewLinkedInProvider(os.Getenv("LINKEDIN_ACCESS_TOKEN"), logger))
	registry.Register(channels.NewYouTubeProvider(os.Getenv("YOUTUBE_API_KEY"), logger))

	return registry
}
