// Package postgresql provides the PostgreSQL persistence backend for
// workflows, runs and CRM records.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	workflowRepo *WorkflowRepository
	runRepo      *RunRepository
	crmRepo      *CRMRepository
}

// NewPersistence opens the database, runs migrations and returns a ready
// persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:           database,
		logger:       logger,
		workflowRepo: NewWorkflowRepository(database, logger),
		runRepo:      NewRunRepository(database, logger),
		crmRepo:      NewCRMRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Workflows returns all non-deleted workflows, newest first.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.workflowRepo.GetAll(ctx)
}

// WorkflowByID returns a workflow by its ID.
func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.workflowRepo.GetByID(ctx, id)
}

// ActiveWorkflowsByTrigger returns active workflows matching the trigger type.
func (p *Persistence) ActiveWorkflowsByTrigger(ctx context.Context, triggerType string) ([]*models.Workflow, error) {
	return p.workflowRepo.GetActiveByTrigger(ctx, triggerType)
}

// SaveWorkflow inserts or updates a workflow.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.workflowRepo.Save(ctx, workflow)
}

// DeleteWorkflow soft deletes a workflow by setting deleted_at.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.Delete(ctx, id)
}

// Runs returns recent runs, newest first, capped at limit when positive.
func (p *Persistence) Runs(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	return p.runRepo.GetAll(ctx, limit)
}

// RunByID returns a run by its ID.
func (p *Persistence) RunByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	return p.runRepo.GetByID(ctx, id)
}

// SaveRun inserts or updates a run.
func (p *Persistence) SaveRun(ctx context.Context, run *models.WorkflowRun) error {
	return p.runRepo.Save(ctx, run)
}

// DealByID returns a deal by its ID.
func (p *Persistence) DealByID(ctx context.Context, id string) (*models.Deal, error) {
	return p.crmRepo.DealByID(ctx, id)
}

// SaveDeal inserts or updates a deal.
func (p *Persistence) SaveDeal(ctx context.Context, deal *models.Deal) error {
	return p.crmRepo.SaveDeal(ctx, deal)
}

// CreateActivity records a deal timeline entry.
func (p *Persistence) CreateActivity(ctx context.Context, activity *models.Activity) error {
	return p.crmRepo.CreateActivity(ctx, activity)
}

// CreateNotification records an in-app notification.
func (p *Persistence) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return p.crmRepo.CreateNotification(ctx, notification)
}
