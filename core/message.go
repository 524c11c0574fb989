package core

import (
	"time"

	"github.com/google/uuid"
)

// Role tags who a message is attributed to in the two-role dialogue schema.
type Role string

const (
	// RoleHuman marks user-originated input, including critic feedback folded
	// back into the conversation.
	RoleHuman Role = "human"
	// RoleAI marks generator-originated output.
	RoleAI Role = "ai"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleHuman || r == RoleAI }

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// Message is one turn of dialogue. It is a value type: every hand-off copies it
// and no API mutates a Message once created. Use Retag to derive a message with
// a different role.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Author    string    `json:"author,omitempty"` // Producing agent or "user"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and UTC timestamp.
func NewMessage(role Role, author, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewHumanMessage creates a user-authored message.
func NewHumanMessage(content string) Message {
	return NewMessage(RoleHuman, "user", content)
}

// NewAIMessage creates a message produced by the named agent.
func NewAIMessage(author, content string) Message {
	return NewMessage(RoleAI, author, content)
}

// Retag returns a new message carrying the same author and content under a
// different role. The receiver is left untouched.
func (m Message) Retag(role Role) Message {
	return NewMessage(role, m.Author, m.Content)
}

// IsHuman reports whether the message is attributed to the human side.
func (m Message) IsHuman() bool { return m.Role == RoleHuman }

// IsAI reports whether the message is attributed to the generator side.
func (m Message) IsAI() bool { return m.Role == RoleAI }

// NewID generates a new unique identifier for messages and runs.
func NewID() string { return uuid.NewString() }
