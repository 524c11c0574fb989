package reflection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateGenerating, StateReflecting, true},
		{StateGenerating, StateDone, true},
		{StateReflecting, StateGenerating, true},
		{StateReflecting, StateDone, false},
		{StateDone, StateGenerating, false},
		{StateGenerating, StateGenerating, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestState_Names(t *testing.T) {
	assert.Equal(t, "GENERATING", StateGenerating.String())
	assert.Equal(t, "REFLECTING", StateReflecting.String())
	assert.Equal(t, "DONE", StateDone.String())
	assert.Equal(t, "UNKNOWN", State(42).String())

	assert.Equal(t, "generate", StateGenerating.Node())
	assert.Equal(t, "reflect", StateReflecting.Node())
	assert.Equal(t, "__end__", StateDone.Node())
}

func TestMermaid(t *testing.T) {
	graph := Mermaid()

	assert.True(t, strings.HasPrefix(graph, "graph TD;\n"))
	assert.Contains(t, graph, "__start__ --> generate;")
	assert.Contains(t, graph, "generate -.-> reflect;")
	assert.Contains(t, graph, "generate -.-> __end__;")
	assert.Contains(t, graph, "reflect --> generate;")
	assert.NotContains(t, graph, "reflect -.-> __end__")
}
