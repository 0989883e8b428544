// Package crm exposes the deal, task and notification operations workflow
// steps perform against the persistence layer.
package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/persistence"
)

// ErrMissingIdentifiers is returned when a task cannot be attached to a deal
// and a user.
var ErrMissingIdentifiers = errors.New("missing deal ID or user ID")

type Service struct {
	persistence persistence.Persistence
	logger      *slog.Logger
}

func NewService(p persistence.Persistence, logger *slog.Logger) *Service {
	return &Service{
		persistence: p,
		logger:      logger.With("module", "crm"),
	}
}

// DealByID returns the deal or persistence.ErrDealNotFound.
func (s *Service) DealByID(ctx context.Context, id string) (*models.Deal, error) {
	return s.persistence.DealByID(ctx, id)
}

// CreateTask records a TASK activity on a deal's timeline. Both the deal and
// the user must be identified.
func (s *Service) CreateTask(ctx context.Context, dealID, userID, content string) (*models.Activity, error) {
	if dealID == "" || userID == "" {
		return nil, ErrMissingIdentifiers
	}

	activity := &models.Activity{
		Type:    models.ActivityTask,
		Content: content,
		DealID:  dealID,
		UserID:  userID,
	}

	err := s.persistence.CreateActivity(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.InfoContext(ctx, "Task created", "deal_id", dealID, "user_id", userID)

	return activity, nil
}

// UpdateDealStage moves a deal to the given stage.
func (s *Service) UpdateDealStage(ctx context.Context, dealID, stage string) (*models.Deal, error) {
	deal, err := s.persistence.DealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	deal.Stage = stage

	err = s.persistence.SaveDeal(ctx, deal)
	if err != nil {
		return nil, fmt.Errorf("failed to update deal %s: %w", dealID, err)
	}

	s.logger.InfoContext(ctx, "Deal stage updated", "deal_id", dealID, "stage", stage)

	return deal, nil
}

// Notify records an in-app notification for a user.
func (s *Service) Notify(ctx context.Context, userID, title, message string) (*models.Notification, error) {
	if userID == "" {
		return nil, ErrMissingIdentifiers
	}

	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	err := s.persistence.CreateNotification(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}
