// Package scheduler resumes runs suspended on long WAIT steps. The durable
// implementation keeps the queue in a Redis sorted set scored by resume time,
// so queued waits survive worker restarts.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/events"
)

const waitQueueKey = "relay:wait_queue"

// queueEntry is the sorted-set member for one suspended run.
type queueEntry struct {
	RunID      string `json:"run_id"`
	WorkflowID string `json:"workflow_id,omitempty"`
	StepIndex  int    `json:"step_index"`
}

// RedisScheduler persists queued resumes in Redis and polls for due entries
// every second, publishing a RunResumed event for each.
type RedisScheduler struct {
	client    *redis.Client
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	cron      *cron.Cron
	workerID  string
}

func NewRedisScheduler(redisURL string, publisher eventbus.EventPublisher, logger *slog.Logger, workerID string) (*RedisScheduler, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return &RedisScheduler{
		client:    redis.NewClient(opts),
		publisher: publisher,
		logger:    logger.With("module", "wait_scheduler"),
		workerID:  workerID,
	}, nil
}

// ScheduleResume enqueues the run, scored by its resume time.
func (s *RedisScheduler) ScheduleResume(ctx context.Context, runID string, stepIndex int, resumeAt time.Time) error {
	member, err := json.Marshal(queueEntry{RunID: runID, StepIndex: stepIndex})
	if err != nil {
		return fmt.Errorf("failed to marshal queue entry: %w", err)
	}

	err = s.client.ZAdd(ctx, waitQueueKey, redis.Z{
		Score:  float64(resumeAt.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue wait for run %s: %w", runID, err)
	}

	s.logger.InfoContext(ctx, "Wait queued", "run_id", runID, "step_index", stepIndex, "resume_at", resumeAt)

	s.announceScheduled(ctx, runID, stepIndex, resumeAt)

	return nil
}

// announceScheduled reports the queued wait on the bus. The queue entry is
// the source of truth, so a failed announcement is only logged.
func (s *RedisScheduler) announceScheduled(ctx context.Context, runID string, stepIndex int, resumeAt time.Time) {
	event := events.WaitScheduled{
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

	err := s.publisher.Publish(ctx, runID, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish wait scheduled event", "run_id", runID, "error", err)
	}
}

// Start polls the queue once per second until the context is cancelled.
func (s *RedisScheduler) Start(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	s.cron = cron.New(cron.WithSeconds(), cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err = s.cron.AddFunc("* * * * * *", func() {
		s.poll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule poll job: %w", err)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Wait scheduler started")

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()

	return nil
}

// poll pops every due entry and publishes its RunResumed event. ZRem before
// publish makes delivery at-most-once per scheduler instance; the runner's
// terminal-state check absorbs any duplicate from competing instances.
func (s *RedisScheduler) poll(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	members, err := s.client.ZRangeByScore(ctx, waitQueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to poll wait queue", "error", err)

		return
	}

	for _, member := range members {
		removed, err := s.client.ZRem(ctx, waitQueueKey, member).Result()
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to dequeue wait entry", "error", err)

			continue
		}

		if removed == 0 {
			// Another scheduler instance claimed it.
			continue
		}

		var entry queueEntry

		err = json.Unmarshal([]byte(member), &entry)
		if err != nil {
			s.logger.ErrorContext(ctx, "Malformed wait queue entry", "member", member, "error", err)

			continue
		}

		s.publishResume(ctx, entry)
	}
}

func (s *RedisScheduler) publishResume(ctx context.Context, entry queueEntry) {
	event := events.RunResumed{
		BaseEvent: events.BaseEvent{
			ID:        "evt-" + s.workerID + "-" + strconv.FormatInt(time.Now().UnixNano(), 10),
			Type:      events.RunResumedEvent,
			Timestamp: time.Now().UTC(),
			WorkerID:  s.workerID,
		},
		RunID:     entry.RunID,
		StepIndex: entry.StepIndex,
	}

	err := s.publisher.Publish(ctx, entry.RunID, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish resume event", "run_id", entry.RunID, "error", err)

		return
	}

	s.logger.InfoContext(ctx, "Run resume published", "run_id", entry.RunID, "step_index", entry.StepIndex)
}

// Close releases the Redis connection.
func (s *RedisScheduler) Close() error {
	if s.cron != nil {
		s.cron.Stop()
	}

	return s.client.Close()
}
