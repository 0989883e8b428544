// Package services contains the application layer between the HTTP handlers
// and persistence: definition validation, graph conversion and run queries.
package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lumamark/relay/pkg/graph"
	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
	"github.com/lumamark/relay/pkg/registry"
)

const defaultRunsLimit = 50

type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence, r *registry.Registry, v *validator.Validate) *Workflow {
	return &Workflow{
		persistence: p,
		registry:    r,
		validator:   v,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflows returns all non-deleted workflow definitions.
func (w *Workflow) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.Workflows(ctx)
}

// FetchByID returns one workflow definition.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowByID(ctx, id)
}

// Save validates the definition and persists it. Validation covers the struct
// tags, that every step type is known, and each step's config against its
// registered schema. Invalid definitions never reach storage; runtime trusts
// what it loads.
func (w *Workflow) Save(ctx context.Context, workflow *models.Workflow) error {
	err := w.validator.Struct(workflow)
	if err != nil {
		return NewValidationError("", err.Error())
	}

	if workflow.TriggerType == "" {
		return NewValidationError("trigger_type", "trigger type is required")
	}

	for index, step := range workflow.Steps {
		if !step.Type.Valid() {
			return NewValidationError(
				fmt.Sprintf("steps[%d].type", index),
				fmt.Sprintf("unknown step type %q", step.Type),
			)
		}

		err := w.registry.ValidateStep(step)
		if err != nil {
			return NewValidationError(fmt.Sprintf("steps[%d].config", index), err.Error())
		}

		if step.Type == models.StepWait && step.Delay < 0 {
			return NewValidationError(fmt.Sprintf("steps[%d].delay", index), "delay must not be negative")
		}
	}

	return w.persistence.SaveWorkflow(ctx, workflow)
}

// Delete soft deletes a workflow. Its runs remain queryable.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.DeleteWorkflow(ctx, id)
}

// Graph returns the editor representation of a workflow's steps.
func (w *Workflow) Graph(ctx context.Context, id string) (*graph.Graph, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return graph.Decompile(workflow.TriggerType, workflow.Steps), nil
}

// SaveGraph compiles the editor graph into steps and saves them on the
// workflow through the same validation path as Save.
func (w *Workflow) SaveGraph(ctx context.Context, id string, g *graph.Graph) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	steps, err := graph.Compile(g)
	if err != nil {
		return nil, NewValidationError("graph", err.Error())
	}

	workflow.Steps = steps

	err = w.Save(ctx, workflow)
	if err != nil {
		return nil, err
	}

	return workflow, nil
}

// ListRuns returns recent runs, newest first.
func (w *Workflow) ListRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	return w.persistence.Runs(ctx, limit)
}

// FetchRun returns one run with its full log.
func (w *Workflow) FetchRun(ctx context.Context, id string) (*models.WorkflowRun, error) {
	return w.persistence.RunByID(ctx, id)
}
