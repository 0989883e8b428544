// Package graph converts between the visual editor's node/edge representation
// of a workflow and the executable step list.
package graph

// Position is the editor canvas placement of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one box on the editor canvas. Type is either NodeTypeTrigger or a
// step type; Data carries the step config plus editor-only presentation
// fields.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data,omitempty"`
	Position Position       `json:"position"`
}

// Edge connects two nodes. SourceHandle distinguishes the true/false outputs
// of a condition node.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}

// Graph is the editor document for one workflow.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeTypeTrigger marks the entry node of the graph.
const NodeTypeTrigger = "trigger"

// Condition edge handles.
const (
	HandleTrue  = "true"
	HandleFalse = "false"
)
