package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

// RunRepository handles workflow run database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

const runColumns = `
	id
  , workflow_id
  , status
  , started_at
  , completed_at
  , steps
  , trigger_data
  , variables
  , logs
`

// GetAll returns runs newest first. A non-positive limit returns all runs.
func (r *RunRepository) GetAll(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM workflow_runs
		ORDER BY started_at DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	defer func() {
		closeErr := rows.Close()
		if closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	runs := make([]*models.WorkflowRun, 0)

	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetByID returns a run by ID or persistence.ErrRunNotFound.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM workflow_runs
		WHERE id = $1
	`

	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return run, nil
}

// Save inserts or updates a run. The runner calls this at start, after each
// step and at completion, so the stored row always reflects progress.
func (r *RunRepository) Save(ctx context.Context, run *models.WorkflowRun) error {
	stepsJSON, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	triggerDataJSON, err := json.Marshal(run.TriggerData)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	variablesJSON, err := json.Marshal(run.Variables)
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}

	logsJSON, err := json.Marshal(run.Logs)
	if err != nil {
		return fmt.Errorf("failed to marshal logs: %w", err)
	}

	query := `
		INSERT INTO workflow_runs (id, workflow_id, status, started_at,
completed_at, steps, trigger_data, variables, logs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			variables = EXCLUDED.variables,
			logs = EXCLUDED.logs
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.WorkflowID,
		run.Status,
		run.StartedAt,
		run.CompletedAt,
		stepsJSON,
		triggerDataJSON,
		variablesJSON,
		logsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

func (r *RunRepository) scanRun(row scanner) (*models.WorkflowRun, error) {
	var (
		run             models.WorkflowRun
		completedAt     sql.NullTime
		stepsJSON       []byte
		triggerDataJSON []byte
		variablesJSON   []byte
		logsJSON        []byte
	)

	err := row.Scan(
		&run.ID,
		&run.WorkflowID,
		&run.Status,
		&run.StartedAt,
		&completedAt,
		&stepsJSON,
		&triggerDataJSON,
		&variablesJSON,
		&logsJSON,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	err = json.Unmarshal(stepsJSON, &run.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}

	err = json.Unmarshal(triggerDataJSON, &run.TriggerData)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger data: %w", err)
	}

	err = json.Unmarshal(variablesJSON, &run.Variables)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
	}

	err = json.Unmarshal(logsJSON, &run.Logs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal logs: %w", err)
	}

	return &run, nil
}
