package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

func TestPersistence_WorkflowLifecycle(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := &models.Workflow{
		ID:          "wf-1",
		Name:        "Welcome flow",
		CompanyID:   "co-1",
		TriggerType: models.TriggerContactCreated,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "hi"}},
		},
	}

	require.NoError(t, p.SaveWorkflow(ctx, wf))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome flow", loaded.Name)
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, models.StepLog, loaded.Steps[0].Type)

	all, err := p.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, p.DeleteWorkflow(ctx, "wf-1"))

	_, err = p.WorkflowByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = p.DeleteWorkflow(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_ActiveWorkflowsByTrigger(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.SaveWorkflow(ctx, &models.Workflow{
		ID: "wf-active", Name: "a", TriggerType: "FORM_SUBMITTED", IsActive: true,
	}))
	require.NoError(t, p.SaveWorkflow(ctx, &models.Workflow{
		ID: "wf-paused", Name: "b", TriggerType: "FORM_SUBMITTED", IsActive: false,
	}))
	require.NoError(t, p.SaveWorkflow(ctx, &models.Workflow{
		ID: "wf-other", Name: "c", TriggerType: "CONTACT_CREATED", IsActive: true,
	}))

	matched, err := p.ActiveWorkflowsByTrigger(ctx, "FORM_SUBMITTED")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "wf-active", matched[0].ID)
}

func TestPersistence_RunLifecycle(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	run := &models.WorkflowRun{
		ID:         "run-1",
		WorkflowID: "wf-1",
		Status:     models.RunStatusPending,
		StartedAt:  time.Now().UTC(),
		Logs:       []models.LogEntry{},
	}

	require.NoError(t, p.SaveRun(ctx, run))

	run.Status = models.RunStatusSuccess
	run.Logs = append(run.Logs, models.LogEntry{
		StepIndex: 0, Type: models.StepLog, Status: models.LogStatusSuccess,
	})
	require.NoError(t, p.SaveRun(ctx, run))

	loaded, err := p.RunByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, loaded.Status)
	assert.Len(t, loaded.Logs, 1)

	_, err = p.RunByID(ctx, "run-ghost")
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestPersistence_Runs_NewestFirstWithLimit(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		require.NoError(t, p.SaveRun(ctx, &models.WorkflowRun{
			ID:        id,
			Status:    models.RunStatusSuccess,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := p.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-mid", runs[1].ID)
}

func TestPersistence_Deals(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.SaveDeal(ctx, &models.Deal{ID: "deal-1", Name: "Acme", Stage: "NEW"}))

	deal, err := p.DealByID(ctx, "deal-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", deal.Name)

	_, err = p.DealByID(ctx, "deal-ghost")
	assert.True(t, persistence.IsDealNotFound(err))
}

func TestPersistence_ActivityAndNotificationIDs(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	activity := &models.Activity{Type: models.ActivityTask, DealID: "deal-1", UserID: "user-1"}
	require.NoError(t, p.CreateActivity(ctx, activity))
	assert.NotEmpty(t, activity.ID)

	notification := &models.Notification{UserID: "user-1", Title: "hi"}
	require.NoError(t, p.CreateNotification(ctx, notification))
	assert.NotEmpty(t, notification.ID)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())

	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.NoError(t, p.Close(context.Background()))
}
