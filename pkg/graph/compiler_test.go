package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
)

func linearGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger, Data: map[string]any{"label": "CONTACT_CREATED"}},
			{ID: "n1", Type: "EMAIL", Data: map[string]any{"subject": "Welcome", "label": "Send welcome"}},
			{ID: "n2", Type: "WAIT", Data: map[string]any{"duration": 1.0, "unit": "h"}},
			{ID: "n3", Type: "LOG", Data: map[string]any{"message": "done"}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "trigger", Target: "n1"},
			{ID: "e2", Source: "n1", Target: "n2"},
			{ID: "e3", Source: "n2", Target: "n3"},
		},
	}
}

func TestCompile_LinearGraph(t *testing.T) {
	steps, err := Compile(linearGraph())
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, models.StepEmail, steps[0].Type)
	assert.Equal(t, "Welcome", steps[0].Config["subject"])

	// Presentation keys never reach step config.
	_, hasLabel := steps[0].Config["label"]
	assert.False(t, hasLabel)

	assert.Equal(t, models.StepWait, steps[1].Type)
	assert.Equal(t, 3600, steps[1].Delay)

	assert.Equal(t, models.StepLog, steps[2].Type)
}

func TestCompile_ConditionFollowsTrueBranch(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger},
			{ID: "cond", Type: "CONDITION", Data: map[string]any{"variable": "stage", "operator": "equals", "value": "WON"}},
			{ID: "yes", Type: "LOG", Data: map[string]any{"message": "won"}},
			{ID: "no", Type: "LOG", Data: map[string]any{"message": "lost"}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "trigger", Target: "cond"},
			{ID: "e2", Source: "cond", Target: "no", SourceHandle: HandleFalse},
			{ID: "e3", Source: "cond", Target: "yes", SourceHandle: HandleTrue},
		},
	}

	steps, err := Compile(g)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, models.StepCondition, steps[0].Type)
	assert.Equal(t, "won", steps[1].Config["message"])
}

func TestCompile_NoTrigger(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "n1", Type: "LOG"}}}

	_, err := Compile(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trigger node")
}

func TestCompile_UnknownNodeType(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger},
			{ID: "n1", Type: "TELEPORT"},
		},
		Edges: []Edge{{ID: "e1", Source: "trigger", Target: "n1"}},
	}

	_, err := Compile(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step node type")
}

func TestCompile_CycleDetected(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "trigger", Type: NodeTypeTrigger},
			{ID: "n1", Type: "LOG"},
			{ID: "n2", Type: "LOG"},
		},
		Edges: []Edge{
			{ID: "e1", Source: "trigger", Target: "n1"},
			{ID: "e2", Source: "n1", Target: "n2"},
			{ID: "e3", Source: "n2", Target: "n1"},
		},
	}

	_, err := Compile(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestCompile_HopCap(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "trigger", Type: NodeTypeTrigger}}}

	previous := "trigger"
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("n%d", i)
		g.Nodes = append(g.Nodes, Node{ID: id, Type: "LOG"})
		g.Edges = append(g.Edges, Edge{ID: "e" + id, Source: previous, Target: id})
		previous = id
	}

	_, err := Compile(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 50 steps")
}

func TestDecompile_RoundTrip(t *testing.T) {
	steps := []*models.Step{
		{Type: models.StepEmail, Config: map[string]any{"subject": "Welcome"}},
		{Type: models.StepWait, Delay: 3600},
		{Type: models.StepCondition, Config: map[string]any{"variable": "stage", "operator": "equals", "value": "WON"}},
		{Type: models.StepLog, Config: map[string]any{"message": "won"}},
	}

	g := Decompile("CONTACT_CREATED", steps)

	// Trigger plus one node per step.
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 4)
	assert.Equal(t, NodeTypeTrigger, g.Nodes[0].Type)

	// A WAIT of 3600s renders as 1 hour.
	assert.Equal(t, 1, g.Nodes[2].Data["duration"])
	assert.Equal(t, "h", g.Nodes[2].Data["unit"])

	// The edge out of a condition carries the true handle.
	assert.Equal(t, HandleTrue, g.Edges[3].SourceHandle)

	recompiled, err := Compile(g)
	require.NoError(t, err)
	require.Len(t, recompiled, 4)

	assert.Equal(t, models.StepWait, recompiled[1].Type)
	assert.Equal(t, 3600, recompiled[1].Delay)
	assert.Equal(t, "Welcome", recompiled[0].Config["subject"])
}

func TestDecompile_DelayUnits(t *testing.T) {
	tests := []struct {
		seconds  int
		duration int
		unit     string
	}{
		{86400, 1, "d"},
		{7200, 2, "h"},
		{300, 5, "m"},
		{45, 45, "s"},
		{0, 0, "s"},
	}

	for _, tt := range tests {
		g := Decompile("X", []*models.Step{{Type: models.StepWait, Delay: tt.seconds}})

		assert.Equal(t, tt.duration, g.Nodes[1].Data["duration"], "seconds=%d", tt.seconds)
		assert.Equal(t, tt.unit, g.Nodes[1].Data["unit"], "seconds=%d", tt.seconds)
	}
}
