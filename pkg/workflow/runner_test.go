package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence/file"
	"github.com/lumamark/relay/pkg/registry"
	"github.com/lumamark/relay/pkg/steps/condition"
	"github.com/lumamark/relay/pkg/steps/logmsg"
	"github.com/lumamark/relay/pkg/steps/wait"
)

type fakeScheduler struct {
	scheduled []scheduledResume
	err       error
}

type scheduledResume struct {
	runID     string
	stepIndex int
	resumeAt  time.Time
}

func (s *fakeScheduler) ScheduleResume(_ context.Context, runID string, stepIndex int, resumeAt time.Time) error {
	if s.err != nil {
		return s.err
	}

	s.scheduled = append(s.scheduled, scheduledResume{runID, stepIndex, resumeAt})

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testRunner(t *testing.T) (*Runner, *file.Persistence, *fakeScheduler) {
	t.Helper()

	persistence := file.NewPersistence(t.TempDir())

	reg := registry.NewRegistry(testLogger())
	reg.RegisterHandler(logmsg.NewFactory())
	reg.RegisterHandler(condition.NewFactory())
	reg.RegisterHandler(wait.NewFactory())

	scheduler := &fakeScheduler{}

	return NewRunner(persistence, reg, scheduler, testLogger()), persistence, scheduler
}

func TestRunner_Start_RunsAllSteps(t *testing.T) {
	runner, persistence, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-1",
		Name:        "Log twice",
		TriggerType: models.TriggerContactCreated,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "Hello {{name}}"}},
			{Type: models.StepLog, Config: map[string]any{"message": "Bye"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, map[string]any{"name": "Ana"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusSuccess, run.Status)
	require.NotNil(t, run.CompletedAt)
	require.Len(t, run.Logs, 2)
	assert.Equal(t, models.LogStatusSuccess, run.Logs[0].Status)
	assert.Equal(t, "Hello Ana", run.Logs[0].Details)

	// The run row was persisted.
	saved, err := persistence.RunByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, saved.Status)
	assert.Len(t, saved.Logs, 2)
}

func TestRunner_Start_StepFaultIsIsolated(t *testing.T) {
	runner, _, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-2",
		Name:        "Faulty middle step",
		TriggerType: models.TriggerContactCreated,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "first"}},
			{Type: models.StepEmail}, // not registered in this registry
			{Type: models.StepLog, Config: map[string]any{"message": "last"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, nil)
	require.NoError(t, err)

	// The unregistered step logs an ERROR and the run keeps going.
	assert.Equal(t, models.RunStatusSuccess, run.Status)
	require.Len(t, run.Logs, 3)
	assert.Equal(t, models.LogStatusSuccess, run.Logs[0].Status)
	assert.Equal(t, models.LogStatusError, run.Logs[1].Status)
	assert.Contains(t, run.Logs[1].Details, "not registered")
	assert.Equal(t, models.LogStatusSuccess, run.Logs[2].Status)
}

func TestRunner_Start_FalseConditionSkipsRemaining(t *testing.T) {
	runner, _, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-3",
		Name:        "Gated workflow",
		TriggerType: models.TriggerDealStageChanged,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "checking"}},
			{Type: models.StepCondition, Config: map[string]any{
				"variable": "stage", "operator": models.OpEquals, "value": "WON",
			}},
			{Type: models.StepLog, Config: map[string]any{"message": "never runs"}},
			{Type: models.StepLog, Config: map[string]any{"message": "never runs either"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, map[string]any{"stage": "LOST"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusSuccess, run.Status)

	// Every step gets a log entry, the ones after the condition as SKIPPED.
	require.Len(t, run.Logs, 4)
	assert.Equal(t, models.LogStatusFalse, run.Logs[1].Status)
	assert.Equal(t, models.LogStatusSkipped, run.Logs[2].Status)
	assert.Equal(t, "Skipped: condition not met", run.Logs[2].Details)
	assert.Equal(t, models.LogStatusSkipped, run.Logs[3].Status)
}

func TestRunner_Start_LongWaitSuspends(t *testing.T) {
	runner, persistence, scheduler := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-4",
		Name:        "Nurture sequence",
		TriggerType: models.TriggerFormSubmitted,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "welcome"}},
			{Type: models.StepWait, Delay: 3600},
			{Type: models.StepLog, Config: map[string]any{"message": "follow up"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, nil)
	require.NoError(t, err)

	// Suspended, not terminal: the wait's QUEUED entry is the last log.
	assert.Equal(t, models.RunStatusPending, run.Status)
	require.Len(t, run.Logs, 2)
	assert.Equal(t, models.LogStatusQueued, run.Logs[1].Status)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, run.ID, scheduler.scheduled[0].runID)
	assert.Equal(t, 2, scheduler.scheduled[0].stepIndex)

	// Progress was persisted before handing off.
	saved, err := persistence.RunByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, saved.Status)
	assert.Len(t, saved.Logs, 2)
}

func TestRunner_Start_SchedulerFailureRecordsSummary(t *testing.T) {
	runner, persistence, scheduler := testRunner(t)
	scheduler.err = errors.New("redis unreachable")

	wf := &models.Workflow{
		ID:          "wf-9",
		Name:        "Nurture sequence",
		TriggerType: models.TriggerFormSubmitted,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "welcome"}},
			{Type: models.StepWait, Delay: 3600},
		},
	}

	run, err := runner.Start(context.Background(), wf, nil)
	require.Error(t, err)
	require.NotNil(t, run)

	assert.Equal(t, models.RunStatusFailed, run.Status)
	require.NotNil(t, run.CompletedAt)

	// The failed run explains itself: a summary ERROR entry follows the
	// step logs.
	require.Len(t, run.Logs, 3)
	last := run.Logs[2]
	assert.Equal(t, models.LogStatusError, last.Status)
	assert.Contains(t, last.Details, "redis unreachable")

	saved, err := persistence.RunByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, saved.Status)
	assert.Equal(t, models.LogStatusError, saved.Logs[len(saved.Logs)-1].Status)
}

func TestRunner_Resume_ContinuesFromStep(t *testing.T) {
	runner, _, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-5",
		Name:        "Nurture sequence",
		TriggerType: models.TriggerFormSubmitted,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "welcome"}},
			{Type: models.StepWait, Delay: 3600},
			{Type: models.StepLog, Config: map[string]any{"message": "follow up"}},
		},
	}

	suspended, err := runner.Start(context.Background(), wf, nil)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusPending, suspended.Status)

	resumed, err := runner.Resume(context.Background(), suspended.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusSuccess, resumed.Status)
	require.Len(t, resumed.Logs, 3)
	assert.Equal(t, "follow up", resumed.Logs[2].Details)
}

func TestRunner_Resume_TerminalRunIsNoOp(t *testing.T) {
	runner, _, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-6",
		Name:        "One log",
		TriggerType: models.TriggerContactCreated,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "done"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, nil)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusSuccess, run.Status)

	// A duplicate resume delivery leaves the run untouched.
	resumed, err := runner.Resume(context.Background(), run.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusSuccess, resumed.Status)
	assert.Len(t, resumed.Logs, 1)
}

func TestRunner_Resume_UnknownRun(t *testing.T) {
	runner, _, _ := testRunner(t)

	_, err := runner.Resume(context.Background(), "run-ghost", 0)
	require.Error(t, err)
}

func TestRunner_Start_VariablesFlowBetweenSteps(t *testing.T) {
	runner, _, _ := testRunner(t)

	wf := &models.Workflow{
		ID:          "wf-7",
		Name:        "Variable flow",
		TriggerType: models.TriggerMessageReceived,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "got {{message}}"}},
		},
	}

	run, err := runner.Start(context.Background(), wf, map[string]any{"message": "oi"})
	require.NoError(t, err)

	assert.Equal(t, "got oi", run.Logs[0].Details)
	assert.NotNil(t, run.Variables)
}
