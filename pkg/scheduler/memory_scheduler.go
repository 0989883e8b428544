package scheduler

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/events"
)

// MemoryScheduler keeps queued waits in process memory. Queued runs do not
// survive a restart; it exists for tests and credential-free development,
// where Redis is not available.
type MemoryScheduler struct {
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	workerID  string

	mu     sync.Mutex
	timers []*time.Timer
}

func NewMemoryScheduler(publisher eventbus.EventPublisher, logger *slog.Logger, workerID string) *MemoryScheduler {
	return &MemoryScheduler{
		publisher: publisher,
		logger:    logger.With("module", "wait_scheduler"),
		workerID:  workerID,
	}
}

func (s *MemoryScheduler) ScheduleResume(ctx context.Context, runID string, stepIndex int, resumeAt time.Time) error {
	delay := time.Until(resumeAt)
	if delay < 0 {
		delay = 0
	}

	s.logger.InfoContext(ctx, "Wait queued in memory", "run_id", runID, "step_index", stepIndex, "resume_at", resumeAt)

	scheduled := events.WaitScheduled{
		BaseEvent: events.BaseEvent{
			ID:        "evt-" + s.workerID + "-" + strconv.FormatInt(time.Now().UnixNano(), 10),
			Type:      events.WaitScheduledEvent,
			Timestamp: time.Now().UTC(),
			WorkerID:  s.workerID,
		},
		RunID:     runID,
		StepIndex: stepIndex,
		ResumeAt:  resumeAt,
	}

	if err := s.publisher.Publish(ctx, runID, scheduled); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish wait scheduled event", "run_id", runID, "error", err)
	}

	timer := time.AfterFunc(delay, func() {
		event := events.RunResumed{
			BaseEvent: events.BaseEvent{
				ID:        "evt-" + s.workerID + "-" + strconv.FormatInt(time.Now().UnixNano(), 10),
				Type:      events.RunResumedEvent,
				Timestamp: time.Now().UTC(),
				WorkerID:  s.workerID,
			},
			RunID:     runID,
			StepIndex: stepIndex,
		}

		err := s.publisher.Publish(context.Background(), runID, event)
		if err != nil {
			s.logger.Error("Failed to publish resume event", "run_id", runID, "error", err)
		}
	})

	s.mu.Lock()
	s.timers = append(s.timers, timer)
	s.mu.Unlock()

	return nil
}

// Close stops all pending timers.
func (s *MemoryScheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, timer := range s.timers {
		timer.Stop()
	}

	s.timers = nil

	return nil
}
