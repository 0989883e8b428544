package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/lumamark/relay/pkg/cmd"
	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/log"
	"github.com/lumamark/relay/pkg/scheduler"
	"github.com/lumamark/relay/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "relay-worker",
		EnableShellCompletion: true,
		Usage:                 "Start workers to execute workflow runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the durable wait queue (in-memory when unset)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("relay-worker").With("worker_id", workerID)

			logger.InfoContext(ctx, "Initializing Relay Worker")

			eventBus := cmd.NewEventBus(command.String("event-bus"), "relay-worker", logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			channelRegistry := cmd.NewChannelRegistry(logger)
			registry := cmd.NewRegistry(logger, persistence, channelRegistry)

			waitScheduler := NewWaitScheduler(ctx, command.String("redis-url"), eventBus, logger, workerID)

			runner := workflow.NewRunner(persistence, registry, waitScheduler, logger)

			worker := NewWorkerManager(
				workerID,
				persistence,
				eventBus,
				logger,
				runner,
			)

			err := worker.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start event-driven worker", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

// NewWaitScheduler picks the durable Redis queue when a URL is configured and
// falls back to in-process timers otherwise. The Redis poll loop runs until
// the context is cancelled.
func NewWaitScheduler(ctx context.Context, redisURL string, publisher eventbus.EventPublisher, logger *slog.Logger, workerID string) workflow.WaitScheduler {
	if redisURL == "" {
		logger.InfoContext(ctx, "REDIS_URL not set, queued waits are kept in memory")

		return scheduler.NewMemoryScheduler(publisher, logger, workerID)
	}

	redisScheduler, err := scheduler.NewRedisScheduler(redisURL, publisher, logger, workerID)
	if err != nil {
		panic("Failed to create redis wait scheduler: " + err.Error())
	}

	go func() {
		err := redisScheduler.Start(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Wait scheduler stopped", "error", err)
		}
	}()

	return redisScheduler
}
