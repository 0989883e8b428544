package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

// CRMRepository handles the deal, activity and notification tables.
type CRMRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCRMRepository creates a new CRM repository.
func NewCRMRepository(db *sql.DB, logger *slog.Logger) *CRMRepository {
	return &CRMRepository{db: db, logger: logger}
}

// DealByID returns a deal by ID or persistence.ErrDealNotFound.
func (r *CRMRepository) DealByID(ctx context.Context, id string) (*models.Deal, error) {
	query := `
		SELECT id, company_id, name, stage, contact_email, owner_id, created_at, updated_at
		FROM deals
		WHERE id = $1
	`

	var deal models.Deal

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deal.ID,
		&deal.CompanyID,
		&deal.Name,
		&deal.Stage,
		&deal.ContactEmail,
		&deal.OwnerID,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrDealNotFound
		}

		return nil, fmt.Errorf("failed to scan deal: %w", err)
	}

	return &deal, nil
}

// SaveDeal inserts or updates a deal.
func (r *CRMRepository) SaveDeal(ctx context.Context, deal *models.Deal) error {
	now := time.Now().UTC()

	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = now
	}

	deal.UpdatedAt = now

	query := `
		INSERT INTO deals (id, company_id, name, stage, contact_email, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			name = EXCLUDED.name,
			stage = EXCLUDED.stage,
			contact_email = EXCLUDED.contact_email,
			owner_id = EXCLUDED.owner_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		deal.ID,
		deal.CompanyID,
		deal.Name,
		deal.Stage,
		deal.ContactEmail,
		deal.OwnerID,
		deal.CreatedAt,
		deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deal %s: %w", deal.ID, err)
	}

	return nil
}

// CreateActivity records a deal timeline entry, assigning an ID when missing.
func (r *CRMRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activities (id, type, content, deal_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		activity.ID,
		activity.Type,
		activity.Content,
		activity.DealID,
		activity.UserID,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// CreateNotification records an in-app notification, assigning an ID when
// missing.
func (r *CRMRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO notifications (id, user_id, title, message, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.CreatedAt,
		notification.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}
