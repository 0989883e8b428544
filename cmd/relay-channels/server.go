// Package main provides the Relay channels gateway: it terminates provider
// webhooks and turns inbound messages into workflow triggers.
package main

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/google/uuid"

	"github.com/lumamark/relay/pkg/channels"
	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/web"
	"github.com/lumamark/relay/pkg/workflow"
)

type Server struct {
	logger          *slog.Logger
	persistence     persistence.Persistence
	channelRegistry *channels.Registry
	eventBus        eventbus.EventBus
}

func NewServer(
	logger *slog.Logger,
	persistence persistence.Persistence,
	channelRegistry *channels.Registry,
	eventBus eventbus.EventBus,
) *Server {
	return &Server{
		logger:          logger,
		persistence:     persistence,
		channelRegistry: channelRegistry,
		eventBus:        eventBus,
	}
}

func (s *Server) App() *fiber.App {
	dispatcher := workflow.NewDispatcher(s.persistence, s.eventBus, s.logger, "channels-"+uuid.New().String()[:8])
	handlers := web.NewChannelHandlers(s.channelRegistry, dispatcher, s.logger)

	app := fiber.New()
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Relay Channels")
	})

	// Meta-style webhook handshake on GET, deliveries on POST.
	app.Get("/webhooks/:channel", handlers.VerifyWebhook)
	app.Post("/webhooks/:channel", handlers.ReceiveWebhook)

	return app
}

func (s *Server) Start(port int) error {
	app := s.App()

	return app.Listen(":" + strconv.Itoa(port))
}
