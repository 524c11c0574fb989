package core

import "github.com/samber/lo"

// History is the read-only view of a conversation handed to role agents.
// Implementations must return defensive copies so callers cannot reorder or
// truncate the underlying history.
type History interface {
	// Len returns the number of messages in the history.
	Len() int
	// Messages returns a copy of all messages in chronological order.
	Messages() []Message
	// Last returns the most recent message, if any.
	Last() (Message, bool)
	// At returns the message at index i. It panics if i is out of range.
	At(i int) Message
}

// ConversationState is the ordered, append-only dialogue history of a single
// loop run. It is owned by exactly one controller and is not safe for
// concurrent mutation; role agents only ever see it through History.
//
// Contract:
//   - Append is the only mutation; there is no delete, insert or reorder
//   - Messages returns a defensive copy
//   - Insertion order is chronological turn order
type ConversationState struct {
	messages []Message
}

var _ History = (*ConversationState)(nil)

// NewConversationState creates a state seeded with zero or more messages.
func NewConversationState(seed ...Message) *ConversationState {
	messages := make([]Message, len(seed))
	copy(messages, seed)
	return &ConversationState{messages: messages}
}

// Append adds a message to the end of the history.
func (s *ConversationState) Append(m Message) {
	s.messages = append(s.messages, m)
}

// Len returns the number of messages.
func (s *ConversationState) Len() int { return len(s.messages) }

// Messages returns a defensive copy of the message slice.
func (s *ConversationState) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Last returns the most recent message.
func (s *ConversationState) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// At returns the message at index i.
func (s *ConversationState) At(i int) Message { return s.messages[i] }

// Roles returns the role sequence of the history, mostly useful for assertions
// and diagnostics.
func (s *ConversationState) Roles() []Role {
	return lo.Map(s.messages, func(m Message, _ int) Role { return m.Role })
}

// View returns a read-only History backed by the state. Later appends are
// visible through the view, but the view itself cannot mutate the state.
func (s *ConversationState) View() History { return stateView{s: s} }

type stateView struct{ s *ConversationState }

func (v stateView) Len() int              { return v.s.Len() }
func (v stateView) Messages() []Message   { return v.s.Messages() }
func (v stateView) Last() (Message, bool) { return v.s.Last() }
func (v stateView) At(i int) Message      { return v.s.At(i) }
