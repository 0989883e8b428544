package models

// ExecutionContext carries the state one run threads through its steps: the
// read-only trigger data plus run-scoped variables that steps may set (AI
// outputs and the like). Variables shadow trigger data on lookup.
type ExecutionContext struct {
	RunID       string         `json:"run_id"`
	WorkflowID  string         `json:"workflow_id"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}

// Lookup resolves a field by name, run variables first, then trigger data.
func (c *ExecutionContext) Lookup(key string) (any, bool) {
	if v, ok := c.Variables[key]; ok {
		return v, true
	}

	v, ok := c.TriggerData[key]

	return v, ok
}

// LookupString resolves a field under several fallback key names, returning
// the first present value stringified, or "" when none resolve.
func (c *ExecutionContext) LookupString(keys ...string) string {
	for _, key := range keys {
		if v, ok := c.Lookup(key); ok {
			if s := Stringify(v); s != "" {
				return s
			}
		}
	}

	return ""
}

// SetVariable records a run-scoped variable for later steps to read.
func (c *ExecutionContext) SetVariable(key string, value any) {
	if c.Variables == nil {
		c.Variables = make(map[string]any)
	}

	c.Variables[key] = value
}

// Fields merges trigger data and variables into one map for interpolation.
func (c *ExecutionContext) Fields() map[string]any {
	merged := make(map[string]any, len(c.TriggerData)+len(c.Variables))
	for k, v := range c.TriggerData {
		merged[k] = v
	}

	for k, v := range c.Variables {
		merged[k] = v
	}

	return merged
}
