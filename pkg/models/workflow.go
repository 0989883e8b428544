// Package models defines the core domain models for trigger-driven workflow automation.
package models

import "time"

// Workflow is a user-authored automation definition: one trigger plus an
// ordered list of steps. Steps are snapshotted into a run at trigger time, so
// edits here never affect in-flight runs.
type Workflow struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"           validate:"required,min=3"`
	CompanyID     string         `json:"company_id"     validate:"required"`
	TriggerType   string         `json:"trigger_type"   validate:"required"`
	TriggerConfig map[string]any `json:"trigger_config,omitempty"`
	Steps         []*Step        `json:"steps"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
}

// Trigger types dispatched by the engine. The set is open: any string can be
// dispatched, these are the ones the platform emits itself.
const (
	TriggerDealStageChanged = "DEAL_STAGE_CHANGED"
	TriggerContactCreated   = "CONTACT_CREATED"
	TriggerFormSubmitted    = "FORM_SUBMITTED"
	TriggerMessageReceived  = "MESSAGE_RECEIVED"
)
