package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/graph"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/persistence/file"
	"github.com/lumamark/relay/pkg/registry"
	"github.com/lumamark/relay/pkg/steps/condition"
	"github.com/lumamark/relay/pkg/steps/logmsg"
	"github.com/lumamark/relay/pkg/steps/wait"
)

func testService(t *testing.T) *Workflow {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	reg := registry.NewRegistry(logger)
	reg.RegisterHandler(condition.NewFactory())
	reg.RegisterHandler(logmsg.NewFactory())
	reg.RegisterHandler(wait.NewFactory())

	return NewWorkflow(
		file.NewPersistence(t.TempDir()),
		reg,
		validator.New(validator.WithRequiredStructEnabled()),
	)
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:          "wf-1",
		Name:        "Welcome flow",
		CompanyID:   "co-1",
		TriggerType: models.TriggerContactCreated,
		Steps: []*models.Step{
			{Type: models.StepLog, Config: map[string]any{"message": "hi"}},
		},
		IsActive: true,
	}
}

func TestWorkflow_SaveAndFetch(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, validWorkflow()))

	fetched, err := service.FetchByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome flow", fetched.Name)

	list, err := service.ListWorkflows(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkflow_Save_ValidationFailures(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.Workflow)
	}{
		{"short name", func(wf *models.Workflow) { wf.Name = "ab" }},
		{"missing company", func(wf *models.Workflow) { wf.CompanyID = "" }},
		{"missing trigger", func(wf *models.Workflow) { wf.TriggerType = "" }},
		{"unknown step type", func(wf *models.Workflow) {
			wf.Steps = []*models.Step{{Type: "TELEPORT"}}
		}},
		{"negative wait delay", func(wf *models.Workflow) {
			wf.Steps = []*models.Step{{Type: models.StepWait, Delay: -5}}
		}},
		{"bad step config", func(wf *models.Workflow) {
			wf.Steps = []*models.Step{{
				Type:   models.StepCondition,
				Config: map[string]any{"operator": 42},
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := validWorkflow()
			tt.mutate(wf)

			err := service.Save(ctx, wf)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestWorkflow_Delete(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, validWorkflow()))
	require.NoError(t, service.Delete(ctx, "wf-1"))

	_, err := service.FetchByID(ctx, "wf-1")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = service.Delete(ctx, "wf-ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflow_GraphRoundTrip(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, validWorkflow()))

	g, err := service.Graph(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)

	saved, err := service.SaveGraph(ctx, "wf-1", g)
	require.NoError(t, err)
	require.Len(t, saved.Steps, 1)
	assert.Equal(t, models.StepLog, saved.Steps[0].Type)
}

func TestWorkflow_SaveGraph_InvalidGraph(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, validWorkflow()))

	_, err := service.SaveGraph(ctx, "wf-1", &graph.Graph{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestWorkflow_RunQueries(t *testing.T) {
	service := testService(t)
	ctx := context.Background()

	_, err := service.FetchRun(ctx, "run-ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))

	runs, err := service.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestWorkflow_HealthCheck(t *testing.T) {
	service := testService(t)

	message, ok := service.HealthCheck(context.Background())
	assert.True(t, ok)
	assert.NotEmpty(t, message)
}
