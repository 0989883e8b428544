package graph

import (
	"fmt"

	"github.com/lumamark/relay/pkg/models"
)

// maxHops bounds the compile walk so a malformed graph cannot loop forever.
const maxHops = 50

// Time units available on WAIT nodes, largest first for decompilation.
const (
	daySeconds    = 86400
	hourSeconds   = 3600
	minuteSeconds = 60
)

// presentation-only node data keys, never copied into step config.
var presentationKeys = map[string]bool{
	"label":      true,
	"duration":   true,
	"unit":       true,
	"templateId": true,
}

// Compile walks the graph from its trigger node and produces the executable
// step list. The walk follows one edge per node; on condition nodes the true
// branch is preferred, matching how the editor lays out the happy path.
func Compile(g *Graph) ([]*models.Step, error) {
	nodesByID := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		nodesByID[g.Nodes[i].ID] = &g.Nodes[i]
	}

	edgesBySource := make(map[string][]Edge, len(g.Edges))
	for _, edge := range g.Edges {
		edgesBySource[edge.Source] = append(edgesBySource[edge.Source], edge)
	}

	trigger, err := findTrigger(g)
	if err != nil {
		return nil, err
	}

	steps := make([]*models.Step, 0, len(g.Nodes)-1)
	visited := make(map[string]bool)
	currentID := nextNodeID(trigger, edgesBySource)

	for hops := 0; currentID != ""; hops++ {
		if hops >= maxHops {
			return nil, fmt.Errorf("workflow graph exceeds %d steps", maxHops)
		}

		if visited[currentID] {
			return nil, fmt.Errorf("workflow graph contains a cycle at node %s", currentID)
		}

		visited[currentID] = true

		node, ok := nodesByID[currentID]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node %s", currentID)
		}

		step, err := nodeToStep(node)
		if err != nil {
			return nil, err
		}

		steps = append(steps, step)
		currentID = nextNodeID(node, edgesBySource)
	}

	return steps, nil
}

// Decompile renders a step list back into an editor graph: a trigger node
// followed by one node per step, laid out vertically and chained with edges.
func Decompile(triggerType string, steps []*models.Step) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(steps)+1),
		Edges: make([]Edge, 0, len(steps)),
	}

	g.Nodes = append(g.Nodes, Node{
		ID:       "trigger",
		Type:     NodeTypeTrigger,
		Data:     map[string]any{"label": triggerType},
		Position: Position{X: 100, Y: 100},
	})

	previousID := "trigger"
	previousType := models.StepType("")

	for index, step := range steps {
		nodeID := fmt.Sprintf("step-%d", index+1)

		g.Nodes = append(g.Nodes, Node{
			ID:       nodeID,
			Type:     string(step.Type),
			Data:     stepToData(step),
			Position: Position{X: 100, Y: float64(100 + 150*(index+1))},
		})

		edge := Edge{
			ID:     fmt.Sprintf("e-%s-%s", previousID, nodeID),
			Source: previousID,
			Target: nodeID,
		}

		// Steps after a condition sit on its true branch.
		if previousType == models.StepCondition {
			edge.SourceHandle = HandleTrue
		}

		g.Edges = append(g.Edges, edge)

		previousID = nodeID
		previousType = step.Type
	}

	return g
}

func findTrigger(g *Graph) (*Node, error) {
	for i := range g.Nodes {
		if g.Nodes[i].Type == NodeTypeTrigger {
			return &g.Nodes[i], nil
		}
	}

	return nil, fmt.Errorf("workflow graph has no trigger node")
}

// nextNodeID picks the edge to follow out of a node. Condition nodes follow
// their true branch; other nodes follow their single outgoing edge.
func nextNodeID(node *Node, edgesBySource map[string][]Edge) string {
	edges := edgesBySource[node.ID]
	if len(edges) == 0 {
		return ""
	}

	if models.StepType(node.Type) == models.StepCondition {
		for _, edge := range edges {
			if edge.SourceHandle == HandleTrue {
				return edge.Target
			}
		}
	}

	return edges[0].Target
}

func nodeToStep(node *Node) (*models.Step, error) {
	stepType := models.StepType(node.Type)
	if !stepType.Valid() {
		return nil, fmt.Errorf("unknown step node type %q", node.Type)
	}

	step := &models.Step{Type: stepType}

	if templateID, ok := node.Data["templateId"].(string); ok {
		step.TemplateID = templateID
	}

	if stepType == models.StepWait {
		step.Delay = waitDelaySeconds(node.Data)
	}

	config := make(map[string]any)

	for key, value := range node.Data {
		if !presentationKeys[key] {
			config[key] = value
		}
	}

	if len(config) > 0 {
		step.Config = config
	}

	return step, nil
}

func stepToData(step *models.Step) map[string]any {
	data := make(map[string]any, len(step.Config)+2)

	for key, value := range step.Config {
		data[key] = value
	}

	if step.TemplateID != "" {
		data["templateId"] = step.TemplateID
	}

	if step.Type == models.StepWait {
		duration, unit := decomposeDelay(step.Delay)
		data["duration"] = duration
		data["unit"] = unit
	}

	return data
}

// waitDelaySeconds converts a WAIT node's duration+unit into seconds.
func waitDelaySeconds(data map[string]any) int {
	duration := intValue(data["duration"])

	switch data["unit"] {
	case "d":
		return duration * daySeconds
	case "h":
		return duration * hourSeconds
	case "m":
		return duration * minuteSeconds
	default:
		return duration
	}
}

// decomposeDelay picks the largest unit that divides the delay evenly, so a
// 3600 second wait renders as 1 hour rather than 60 minutes.
func decomposeDelay(delaySeconds int) (int, string) {
	switch {
	case delaySeconds > 0 && delaySeconds%daySeconds == 0:
		return delaySeconds / daySeconds, "d"
	case delaySeconds > 0 && delaySeconds%hourSeconds == 0:
		return delaySeconds / hourSeconds, "h"
	case delaySeconds > 0 && delaySeconds%minuteSeconds == 0:
		return delaySeconds / minuteSeconds, "m"
	default:
		return delaySeconds, "s"
	}
}

func intValue(v any) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return 0
	}
}
