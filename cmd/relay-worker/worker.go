// Package main provides the Relay worker: it consumes trigger and resume
// events from the bus and drives workflow runs to completion.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/events"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/otelhelper"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/workflow"
)

type WorkerManager struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	runner      *workflow.Runner
	tracer      trace.Tracer
}

func NewWorkerManager(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	runner *workflow.Runner,
) *WorkerManager {
	return &WorkerManager{
		id:          id,
		logger:      logger.With("module", "relay-worker"),
		persistence: persistence,
		eventBus:    eventBus,
		runner:      runner,
		tracer:      noop.NewTracerProvider().Tracer("relay-worker"),
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager", "worker_id", w.id)

	tracer, err := otelhelper.NewTracer(ctx, "relay-worker")
	if err != nil {
		w.logger.WarnContext(ctx, "Tracing disabled, collector unreachable", "error", err)
	} else {
		w.tracer = tracer
	}

	err = w.eventBus.Handle(events.TriggerFiredEvent, w.handleTriggerFired)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.RunResumedEvent, w.handleRunResumed)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *WorkerManager) handleTriggerFired(ctx context.Context, event any) error {
	firedEvent, ok := event.(*events.TriggerFired)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TriggerFired")

		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "run.start",
		attribute.String(otelhelper.WorkflowIDKey, firedEvent.WorkflowID),
		attribute.String(otelhelper.TriggerTypeKey, firedEvent.TriggerType),
		attribute.String(otelhelper.EventIDKey, firedEvent.ID),
		attribute.String(otelhelper.WorkerIDKey, w.id),
	)
	defer span.End()

	logger := w.logger.With(
		"workflow_id", firedEvent.WorkflowID,
		"trigger_type", firedEvent.TriggerType,
		"event_id", firedEvent.ID,
	)
	logger.InfoContext(ctx, "Processing trigger fired event")

	workflowItem, err := w.persistence.WorkflowByID(ctx, firedEvent.WorkflowID)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to fetch workflow", "error", err)

		return err
	}

	triggerData := firedEvent.TriggerData
	if triggerData == nil {
		triggerData = make(map[string]any)
	}

	run, err := w.runner.Start(ctx, workflowItem, triggerData)
	if run != nil {
		span.SetAttributes(attribute.String(otelhelper.RunIDKey, run.ID))
		w.publishLifecycle(ctx, run, err)
	}

	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to execute run", "error", err)

		return err
	}

	return nil
}

func (w *WorkerManager) handleRunResumed(ctx context.Context, event any) error {
	resumedEvent, ok := event.(*events.RunResumed)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for RunResumed")

		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "run.resume",
		attribute.String(otelhelper.RunIDKey, resumedEvent.RunID),
		attribute.Int(otelhelper.StepIndexKey, resumedEvent.StepIndex),
		attribute.String(otelhelper.WorkerIDKey, w.id),
	)
	defer span.End()

	logger := w.logger.With("run_id", resumedEvent.RunID, "step_index", resumedEvent.StepIndex)
	logger.InfoContext(ctx, "Processing run resumed event")

	run, err := w.runner.Resume(ctx, resumedEvent.RunID, resumedEvent.StepIndex)
	if run != nil {
		w.publishLifecycle(ctx, run, err)
	}

	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to resume run", "error", err)

		return err
	}

	return nil
}

// publishLifecycle reports the run's outcome on the bus. Suspended runs
// produce only a started event; their completion is reported by the worker
// that finishes them after resume.
func (w *WorkerManager) publishLifecycle(ctx context.Context, run *models.WorkflowRun, runErr error) {
	base := events.BaseEvent{
		ID:         "evt-" + w.id + "-" + strconv.FormatInt(time.Now().UnixNano(), 10),
		Timestamp:  time.Now().UTC(),
		WorkflowID: run.WorkflowID,
		WorkerID:   w.id,
	}

	var event eventbus.Event

	switch {
	case runErr != nil:
		base.Type = events.RunFailedEvent
		event = events.RunFailed{
			BaseEvent: base,
			RunID:     run.ID,
			Error:     runErr.Error(),
			Duration:  time.Since(run.StartedAt),
		}
	case run.Terminal():
		base.Type = events.RunCompletedEvent
		event = events.RunCompleted{
			BaseEvent: base,
			RunID:     run.ID,
			Duration:  time.Since(run.StartedAt),
		}
	default:
		base.Type = events.RunStartedEvent
		event = events.RunStarted{
			BaseEvent: base,
			RunID:     run.ID,
		}
	}

	err := w.eventBus.Publish(ctx, run.WorkflowID, event)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish run lifecycle event", "run_id", run.ID, "error", err)
	}
}
