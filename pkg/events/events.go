// Package events defines the event types exchanged between the trigger
// dispatcher, the run workers and the wait scheduler.
package events

import (
	"time"
)

type EventType string

// Kafka topic carrying all workflow lifecycle events.
const Topic = "relay.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	TriggerFiredEvent  EventType = "trigger.fired"
	RunStartedEvent    EventType = "run.started"
	RunCompletedEvent  EventType = "run.completed"
	RunFailedEvent     EventType = "run.failed"
	WaitScheduledEvent EventType = "wait.scheduled"
	RunResumedEvent    EventType = "run.resumed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	WorkerID   string         `json:"worker_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TriggerFired is published when a trigger event matches one workflow. The
// worker consumes it and starts a run.
type TriggerFired struct {
	BaseEvent

	TriggerType string         `json:"trigger_type"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

func (t TriggerFired) GetType() EventType {
	return TriggerFiredEvent
}

type RunStarted struct {
	BaseEvent

	RunID string `json:"run_id"`
}

func (r RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	RunID    string        `json:"run_id"`
	Duration time.Duration `json:"duration"`
}

func (r RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	RunID    string        `json:"run_id"`
	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (r RunFailed) GetType() EventType {
	return RunFailedEvent
}

// WaitScheduled is published when a WAIT step exceeds the synchronous sleep
// ceiling and the run is handed to the durable scheduler.
type WaitScheduled struct {
	BaseEvent

	RunID     string    `json:"run_id"`
	StepIndex int       `json:"step_index"`
	ResumeAt  time.Time `json:"resume_at"`
}

func (w WaitScheduled) GetType() EventType {
	return WaitScheduledEvent
}

// RunResumed is published by the scheduler when a queued wait elapses. The
// worker consumes it and continues the run from the recorded step.
type RunResumed struct {
	BaseEvent

	RunID     string `json:"run_id"`
	StepIndex int    `json:"step_index"`
}

func (r RunResumed) GetType() EventType {
	return RunResumedEvent
}
