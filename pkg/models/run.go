package models

import "time"

// RunStatus is the run-level lifecycle state. Terminal once it leaves PENDING.
type RunStatus string

const (
	RunStatusPending RunStatus = "PENDING"
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// LogStatus is the per-step outcome recorded in a LogEntry.
type LogStatus string

const (
	LogStatusPending LogStatus = "PENDING"
	LogStatusSuccess LogStatus = "SUCCESS"
	LogStatusSkipped LogStatus = "SKIPPED"
	LogStatusFailed  LogStatus = "FAILED"
	LogStatusError   LogStatus = "ERROR"
	LogStatusQueued  LogStatus = "QUEUED" // WAIT handed off to the durable scheduler
	LogStatusTrue    LogStatus = "TRUE"   // CONDITION outcomes
	LogStatusFalse   LogStatus = "FALSE"
)

// LogEntry records the outcome of one step within a run. Append-only.
type LogEntry struct {
	StepIndex int       `json:"step_index"`
	Type      StepType  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Status    LogStatus `json:"status"`
	Details   string    `json:"details,omitempty"`
}

// WorkflowRun is one instantiation of a workflow against a trigger event.
// WorkflowID is a weak reference: the run survives definition deletion for
// audit. Steps, TriggerData and Variables are snapshots taken at start so the
// run is immune to later definition edits and can be resumed after a durable
// wait.
type WorkflowRun struct {
	ID          string         `json:"id"`
	WorkflowID  string         `json:"workflow_id"`
	Status      RunStatus      `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Steps       []*Step        `json:"steps"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
	Logs        []LogEntry     `json:"logs"`
}

// Terminal reports whether the run has reached a final status.
func (r *WorkflowRun) Terminal() bool {
	return r.Status != RunStatusPending
}
