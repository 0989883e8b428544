// Package file provides a file-based persistence implementation for local
// development and tests. Each entity is one JSON file under the root directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root string
	mu   sync.RWMutex
}

// NewPersistence creates a file persistence rooted at the given directory.
// A "file://" prefix is stripped, matching the database-url flag format.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) dir(kind string) string {
	return filepath.Join(p.root, kind)
}

func (p *Persistence) write(kind, id string, entity any) error {
	if err := os.MkdirAll(p.dir(kind), 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", kind, err)
	}

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
	}

	path := filepath.Join(p.dir(kind), id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, id, err)
	}

	return nil
}

func (p *Persistence) read(kind, id string, entity any) error {
	path := filepath.Join(p.dir(kind), id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, entity)
}

func (p *Persistence) ids(kind string) ([]string, error) {
	root := os.DirFS(p.dir(kind))

	files, err := fs.Glob(root, "*.json")
	if err != nil || files == nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, strings.TrimSuffix(file, ".json"))
	}

	return ids, nil
}

// Workflows returns all non-deleted workflow definitions.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids, err := p.ids("workflows")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		var workflow models.Workflow
		if err := p.read("workflows", id, &workflow); err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		if workflow.DeletedAt != nil {
			continue
		}

		workflows = append(workflows, &workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var workflow models.Workflow

	err := p.read("workflows", id, &workflow)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, persistence.NewWorkflowError("WorkflowByID", id, err)
	}

	if workflow.DeletedAt != nil {
		return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
	}

	return &workflow, nil
}

func (p *Persistence) ActiveWorkflowsByTrigger(ctx context.Context, triggerType string) ([]*models.Workflow, error) {
	all, err := p.Workflows(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Workflow, 0)

	for _, workflow := range all {
		if workflow.IsActive && workflow.TriggerType == triggerType {
			matched = append(matched, workflow)
		}
	}

	return matched, nil
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	return p.write("workflows", workflow.ID, workflow)
}

// DeleteWorkflow removes the definition file. Unlike the postgresql backend
// there is no deleted_at tombstone; historical runs keep their weak reference
// and survive either way.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := filepath.Join(p.dir("workflows"), id+".json")

	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return persistence.NewWorkflowError("DeleteWorkflow", id, persistence.ErrWorkflowNotFound)
	}

	return err
}

// Runs returns the most recent runs, newest first.
func (p *Persistence) Runs(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids, err := p.ids("runs")
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*models.WorkflowRun, 0, len(ids))

	for _, id := range ids {
		var run models.WorkflowRun
		if err := p.read("runs", id, &run); err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", id, err)
		}

		runs = append(runs, &run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

func (p *Persistence) RunByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var run models.WorkflowRun

	err := p.read("runs", id, &run)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrRunNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	return &run, nil
}

func (p *Persistence) SaveRun(ctx context.Context, run *models.WorkflowRun) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.write("runs", run.ID, run)
}

func (p *Persistence) DealByID(ctx context.Context, id string) (*models.Deal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var deal models.Deal

	err := p.read("deals", id, &deal)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrDealNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load deal %s: %w", id, err)
	}

	return &deal, nil
}

func (p *Persistence) SaveDeal(ctx context.Context, deal *models.Deal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.write("deals", deal.ID, deal)
}

func (p *Persistence) CreateActivity(ctx context.Context, activity *models.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}

	return p.write("activities", activity.ID, activity)
}

func (p *Persistence) CreateNotification(ctx context.Context, notification *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	return p.write("notifications", notification.ID, notification)
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. Nothing to clean up for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
