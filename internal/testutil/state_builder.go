package testutil

import "github.com/hupe1980/reflectloop/core"

// StateBuilder helps construct seed messages and states with fluent chaining.
//
//	seed := NewStateBuilder().Human("Improve: X").Seed()
type StateBuilder struct {
	messages []core.Message
}

// NewStateBuilder creates an empty builder.
func NewStateBuilder() *StateBuilder { return &StateBuilder{} }

// Human appends a user-authored message (chainable).
func (b *StateBuilder) Human(content string) *StateBuilder {
	b.messages = append(b.messages, core.NewHumanMessage(content))
	return b
}

// AI appends a message produced by the named agent (chainable).
func (b *StateBuilder) AI(author, content string) *StateBuilder {
	b.messages = append(b.messages, core.NewAIMessage(author, content))
	return b
}

// Seed returns a copy of the collected messages.
func (b *StateBuilder) Seed() []core.Message {
	out := make([]core.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Build returns a ConversationState holding the collected messages.
func (b *StateBuilder) Build() *core.ConversationState {
	return core.NewConversationState(b.messages...)
}
