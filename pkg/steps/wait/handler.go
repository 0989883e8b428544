// Package wait provides the WAIT workflow step. Short delays sleep inline;
// longer ones suspend the run and hand it to the durable scheduler.
package wait

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
)

// SyncCeiling is the longest delay executed inline. Anything above it would
// hold a worker goroutine hostage, so the run is queued instead.
const SyncCeiling = 10 * time.Second

type Handler struct {
	delay time.Duration
}

func NewHandler(step *models.Step) *Handler {
	return &Handler{delay: time.Duration(step.Delay) * time.Second}
}

func (h *Handler) Execute(ctx context.Context, _ *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "wait")

	if h.delay <= 0 {
		return protocol.StepOutcome{
			Status:  models.LogStatusSuccess,
			Details: "No delay configured",
		}, nil
	}

	if h.delay < SyncCeiling {
		logger.InfoContext(ctx, "Waiting inline", "delay", h.delay)

		select {
		case <-ctx.Done():
			return protocol.StepOutcome{}, ctx.Err()
		case <-time.After(h.delay):
		}

		return protocol.StepOutcome{
			Status:  models.LogStatusSuccess,
			Details: fmt.Sprintf("Waited %s", h.delay),
		}, nil
	}

	resumeAt := time.Now().UTC().Add(h.delay)

	logger.InfoContext(ctx, "Delay exceeds inline ceiling, queueing run", "delay", h.delay, "resume_at", resumeAt)

	return protocol.StepOutcome{
		Status:   models.LogStatusQueued,
		Details:  fmt.Sprintf("Queued for %s", h.delay),
		Suspend:  true,
		ResumeAt: resumeAt,
	}, nil
}
