package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/reflectloop/core"
)

// ScriptedAgent is a deterministic core.RoleAgent. Its n-th call (1-based)
// returns a message whose content is fmt.Sprintf(Format, n).
//
// Example:
//
//	gen := NewScriptedAgent("generator", core.RoleAI, "v%d")
//	critic := NewScriptedAgent("critic", core.RoleAI, "feedback%d")
type ScriptedAgent struct {
	name   string
	role   core.Role
	format string
	failOn int
	err    error

	mu    sync.Mutex
	calls int
	seen  []int
}

// NewScriptedAgent creates a stub producing messages with the given role.
func NewScriptedAgent(name string, role core.Role, format string) *ScriptedAgent {
	return &ScriptedAgent{name: name, role: role, format: format}
}

// FailOn makes the agent return err on its n-th call (chainable).
func (a *ScriptedAgent) FailOn(n int, err error) *ScriptedAgent {
	a.failOn = n
	a.err = err
	return a
}

// Name implements core.RoleAgent.
func (a *ScriptedAgent) Name() string { return a.name }

// Invoke implements core.RoleAgent.
func (a *ScriptedAgent) Invoke(_ context.Context, history core.History) (core.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	a.seen = append(a.seen, history.Len())

	if a.failOn > 0 && a.calls == a.failOn {
		return core.Message{}, a.err
	}

	return core.NewMessage(a.role, a.name, fmt.Sprintf(a.format, a.calls)), nil
}

// Calls returns how often Invoke has been called.
func (a *ScriptedAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// SeenLengths returns the history length observed on each call.
func (a *ScriptedAgent) SeenLengths() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.seen))
	copy(out, a.seen)
	return out
}
