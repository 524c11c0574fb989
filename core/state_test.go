package core

import (
	"context"
	"testing"
)

func TestConversationState_SeedIsCopied(t *testing.T) {
	seed := []Message{NewHumanMessage("a")}
	s := NewConversationState(seed...)
	seed[0] = NewHumanMessage("mutated")

	if s.At(0).Content != "a" {
		t.Fatalf("seed slice aliasing leaked into state: %q", s.At(0).Content)
	}
}

func TestConversationState_AppendAndRead(t *testing.T) {
	s := NewConversationState()
	if _, ok := s.Last(); ok {
		t.Fatal("empty state should have no last message")
	}

	s.Append(NewHumanMessage("q"))
	s.Append(NewAIMessage("generator", "v1"))

	if s.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", s.Len())
	}
	last, ok := s.Last()
	if !ok || last.Content != "v1" {
		t.Fatalf("unexpected last message: %+v", last)
	}

	roles := s.Roles()
	if roles[0] != RoleHuman || roles[1] != RoleAI {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestConversationState_MessagesIsDefensiveCopy(t *testing.T) {
	s := NewConversationState(NewHumanMessage("q"))
	all := s.Messages()
	all[0].Content = "changed"
	all = append(all, NewHumanMessage("extra"))

	if s.At(0).Content != "q" {
		t.Error("messages slice should be copied on read")
	}
	if s.Len() != 1 {
		t.Errorf("appending to the copy should not grow the state, got %d", s.Len())
	}
	_ = all
}

func TestRoleAgentFunc(t *testing.T) {
	agent := RoleAgentFunc{
		AgentName: "echo",
		Fn: func(_ context.Context, h History) (Message, error) {
			last, _ := h.Last()
			return NewAIMessage("echo", last.Content), nil
		},
	}

	msg, err := agent.Invoke(context.Background(), NewConversationState(NewHumanMessage("ping")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.Name() != "echo" || msg.Content != "ping" {
		t.Fatalf("unexpected result: name=%s msg=%+v", agent.Name(), msg)
	}
}

func TestConversationState_ViewIsReadOnly(t *testing.T) {
	s := NewConversationState(NewHumanMessage("q"))
	view := s.View()

	if _, ok := view.(*ConversationState); ok {
		t.Fatal("view must not expose the mutable state")
	}

	s.Append(NewAIMessage("generator", "v1"))
	if view.Len() != 2 || view.At(1).Content != "v1" {
		t.Fatalf("view should observe appends, got len=%d", view.Len())
	}
}
