// Package workflow contains the run controller and the trigger dispatcher:
// the code that turns a trigger event into a persisted, step-by-step run.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/registry"
)

// WaitScheduler schedules a suspended run for resumption once its wait
// elapses.
type WaitScheduler interface {
	ScheduleResume(ctx context.Context, runID string, stepIndex int, resumeAt time.Time) error
}

// Runner executes workflow runs. Each step is isolated: a handler fault is
// recorded as an ERROR log entry and the run continues with the next step.
// The run row is persisted before the first step executes and re-persisted
// after every step, so progress survives a crash.
type Runner struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	scheduler   WaitScheduler
	logger      *slog.Logger
}

func NewRunner(p persistence.Persistence, r *registry.Registry, scheduler WaitScheduler, logger *slog.Logger) *Runner {
	return &Runner{
		persistence: p,
		registry:    r,
		scheduler:   scheduler,
		logger:      logger.With("module", "workflow_runner"),
	}
}

// Start creates a run for the workflow, snapshotting its steps and the
// trigger data, and executes it from the first step. The returned run may be
// non-terminal when a long wait suspended it.
func (r *Runner) Start(ctx context.Context, workflow *models.Workflow, triggerData map[string]any) (*models.WorkflowRun, error) {
	run := &models.WorkflowRun{
		ID:          "run-" + uuid.New().String()[:8],
		WorkflowID:  workflow.ID,
		Status:      models.RunStatusPending,
		StartedAt:   time.Now().UTC(),
		Steps:       workflow.Steps,
		TriggerData: triggerData,
		Variables:   make(map[string]any),
		Logs:        make([]models.LogEntry, 0, len(workflow.Steps)),
	}

	err := r.persistence.SaveRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	r.logger.InfoContext(ctx, "Run started", "run_id", run.ID, "workflow_id", workflow.ID, "steps", len(run.Steps))

	run, err = r.executeFrom(ctx, run, 0)
	if err != nil {
		r.markFailed(ctx, run, err)

		return run, err
	}

	return run, nil
}

// Resume continues a suspended run from the given step index. Terminal runs
// are left untouched, which makes duplicate resume events harmless.
func (r *Runner) Resume(ctx context.Context, runID string, stepIndex int) (*models.WorkflowRun, error) {
	run, err := r.persistence.RunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	if run.Terminal() {
		r.logger.InfoContext(ctx, "Run already terminal, ignoring resume", "run_id", runID, "status", run.Status)

		return run, nil
	}

	r.logger.InfoContext(ctx, "Resuming run", "run_id", runID, "step_index", stepIndex)

	run, err = r.executeFrom(ctx, run, stepIndex)
	if err != nil {
		r.markFailed(ctx, run, err)

		return run, err
	}

	return run, nil
}

// markFailed records a run-level failure. Step-level faults never reach here;
// they are isolated into ERROR log entries.
func (r *Runner) markFailed(ctx context.Context, run *models.WorkflowRun, cause error) {
	if run == nil || run.Terminal() {
		return
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusFailed
	run.CompletedAt = &now

	// One summary entry so a FAILED run carries its own explanation.
	run.Logs = append(run.Logs, models.LogEntry{
		StepIndex: len(run.Logs),
		Timestamp: now,
		Status:    models.LogStatusError,
		Details:   "Run failed: " + cause.Error(),
	})

	err := r.persistence.SaveRun(ctx, run)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to persist failed run", "run_id", run.ID, "error", err)
	}

	r.logger.ErrorContext(ctx, "Run failed", "run_id", run.ID, "error", cause)
}

func (r *Runner) executeFrom(ctx context.Context, run *models.WorkflowRun, startIndex int) (*models.WorkflowRun, error) {
	executionCtx := &models.ExecutionContext{
		RunID:       run.ID,
		WorkflowID:  run.WorkflowID,
		TriggerData: run.TriggerData,
		Variables:   run.Variables,
	}

	logger := r.logger.With("run_id", run.ID, "workflow_id", run.WorkflowID)

	for index := startIndex; index < len(run.Steps); index++ {
		step := run.Steps[index]

		outcome := r.executeStep(ctx, step, executionCtx, logger.With("step_index", index))

		run.Logs = append(run.Logs, models.LogEntry{
			StepIndex: index,
			Type:      step.Type,
			Timestamp: time.Now().UTC(),
			Status:    outcome.Status,
			Details:   outcome.Details,
		})
		run.Variables = executionCtx.Variables

		if outcome.Suspend {
			err := r.persistence.SaveRun(ctx, run)
			if err != nil {
				return run, fmt.Errorf("failed to persist suspended run: %w", err)
			}

			err = r.scheduler.ScheduleResume(ctx, run.ID, index+1, outcome.ResumeAt)
			if err != nil {
				return run, fmt.Errorf("failed to schedule resume for run %s: %w", run.ID, err)
			}

			logger.InfoContext(ctx, "Run suspended", "resume_at", outcome.ResumeAt, "next_step", index+1)

			return run, nil
		}

		err := r.persistence.SaveRun(ctx, run)
		if err != nil {
			return run, fmt.Errorf("failed to persist run progress: %w", err)
		}

		if outcome.StopRun {
			r.skipRemaining(run, index+1)

			break
		}
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusSuccess
	run.CompletedAt = &now

	err := r.persistence.SaveRun(ctx, run)
	if err != nil {
		return run, fmt.Errorf("failed to persist completed run: %w", err)
	}

	logger.InfoContext(ctx, "Run completed", "status", run.Status, "duration", now.Sub(run.StartedAt))

	return run, nil
}

// executeStep runs one step and converts handler faults into an ERROR
// outcome, keeping the fault inside the step's log entry.
func (r *Runner) executeStep(ctx context.Context, step *models.Step, executionCtx *models.ExecutionContext, logger *slog.Logger) protocol.StepOutcome {
	handler, err := r.registry.CreateHandler(step)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create step handler", "step_type", step.Type, "error", err)

		return protocol.StepOutcome{
			Status:  models.LogStatusError,
			Details: err.Error(),
		}
	}

	outcome, err := handler.Execute(ctx, executionCtx, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Step execution failed", "step_type", step.Type, "error", err)

		return protocol.StepOutcome{
			Status:  models.LogStatusError,
			Details: err.Error(),
		}
	}

	return outcome
}

// skipRemaining records a SKIPPED entry for every step after a false
// condition, keeping the log aligned with the step list.
func (r *Runner) skipRemaining(run *models.WorkflowRun, fromIndex int) {
	for index := fromIndex; index < len(run.Steps); index++ {
		run.Logs = append(run.Logs, models.LogEntry{
			StepIndex: index,
			Type:      run.Steps[index].Type,
			Timestamp: time.Now().UTC(),
			Status:    models.LogStatusSkipped,
			Details:   "Skipped: condition not met",
		})
	}
}
