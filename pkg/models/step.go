package models

// StepType identifies one of the closed set of step kinds a workflow may contain.
type StepType string

const (
	StepEmail            StepType = "EMAIL"
	StepWait             StepType = "WAIT"
	StepLog              StepType = "LOG"
	StepCondition        StepType = "CONDITION"
	StepAIAgent          StepType = "AI_AGENT"
	StepSlack            StepType = "SLACK"
	StepHTTP             StepType = "HTTP"
	StepSMS              StepType = "SMS"
	StepWhatsApp         StepType = "WHATSAPP"
	StepCreateTask       StepType = "CREATE_TASK"
	StepUpdateDeal       StepType = "UPDATE_DEAL"
	StepSendNotification StepType = "SEND_NOTIFICATION"
)

// StepTypes lists every valid step type, in a stable order.
func StepTypes() []StepType {
	return []StepType{
		StepEmail, StepWait, StepLog, StepCondition, StepAIAgent,
		StepSlack, StepHTTP, StepSMS, StepWhatsApp,
		StepCreateTask, StepUpdateDeal, StepSendNotification,
	}
}

// Valid reports whether t is a known step type.
func (t StepType) Valid() bool {
	for _, known := range StepTypes() {
		if t == known {
			return true
		}
	}

	return false
}

// Step is a single typed action within a workflow. Config is an opaque
// key-value map whose shape depends on Type; it is validated against the
// registered schema for the type at save time, not at run time.
type Step struct {
	Type       StepType       `json:"type"            validate:"required"`
	Delay      int            `json:"delay,omitempty"` // seconds, WAIT only
	TemplateID string         `json:"template_id,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
}

// ConfigString returns the string value of a config key, or fallback when the
// key is absent or not a string.
func (s *Step) ConfigString(key, fallback string) string {
	if s.Config == nil {
		return fallback
	}

	if v, ok := s.Config[key].(string); ok && v != "" {
		return v
	}

	return fallback
}
