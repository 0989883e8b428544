// Package web provides the HTTP surface for workflow management, run
// inspection, manual trigger firing and channel webhooks.
package web

import "github.com/lumamark/relay/pkg/models"

// CreateWorkflowRequest is the request body for creating a workflow.
type CreateWorkflowRequest struct {
	Name          string         `json:"name"           validate:"required,min=3"`
	CompanyID     string         `json:"company_id"`
	TriggerType   string         `json:"trigger_type"   validate:"required"`
	TriggerConfig map[string]any `json:"trigger_config"`
	Steps         []*models.Step `json:"steps"`
	IsActive      bool           `json:"is_active"`
}

// UpdateWorkflowRequest is the request body for updating a workflow. Fields
// are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name          *string        `json:"name,omitempty" validate:"omitempty,min=3"`
	TriggerType   *string        `json:"trigger_type,omitempty"`
	TriggerConfig map[string]any `json:"trigger_config,omitempty"`
	Steps         []*models.Step `json:"steps,omitempty"`
	IsActive      *bool          `json:"is_active,omitempty"`
}
