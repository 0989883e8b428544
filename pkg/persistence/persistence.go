// Package persistence provides the data storage abstraction for workflow
// definitions, runs and the CRM records steps mutate.
package persistence

import (
	"context"

	"github.com/lumamark/relay/pkg/models"
)

type Persistence interface {
	// Workflow definitions.
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	// ActiveWorkflowsByTrigger returns active workflows whose trigger type
	// matches; it is the dispatcher's selection query.
	ActiveWorkflowsByTrigger(ctx context.Context, triggerType string) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	// Workflow runs. Runs survive workflow deletion for audit.
	Runs(ctx context.Context, limit int) ([]*models.WorkflowRun, error)
	RunByID(ctx context.Context, id string) (*models.WorkflowRun, error)
	SaveRun(ctx context.Context, run *models.WorkflowRun) error

	// CRM records touched by steps.
	DealByID(ctx context.Context, id string) (*models.Deal, error)
	SaveDeal(ctx context.Context, deal *models.Deal) error
	CreateActivity(ctx context.Context, activity *models.Activity) error
	CreateNotification(ctx context.Context, notification *models.Notification) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
