package core

import "context"

// RoleAgent is the capability shared by the generator and the critic.
//
// Invoke receives the full conversation so far, in order, and returns exactly
// one new Message. Implementations must not retain or mutate the history; the
// controller alone appends the returned message. The context is forwarded to
// whatever text-generation service backs the agent.
type RoleAgent interface {
	Name() string
	Invoke(ctx context.Context, history History) (Message, error)
}

// RoleAgentFunc adapts an ordinary function into a RoleAgent.
type RoleAgentFunc struct {
	AgentName string
	Fn        func(ctx context.Context, history History) (Message, error)
}

// Name implements RoleAgent.
func (f RoleAgentFunc) Name() string { return f.AgentName }

// Invoke implements RoleAgent.
func (f RoleAgentFunc) Invoke(ctx context.Context, history History) (Message, error) {
	return f.Fn(ctx, history)
}
