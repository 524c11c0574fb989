package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/reflectloop/core"
)

var (
	// ErrNoResponse is returned by Collect when the stream closes without a final chunk.
	ErrNoResponse = errors.New("model returned no final response")
	// ErrEmptyRequest is returned by providers when a request carries neither instructions nor messages.
	ErrEmptyRequest = errors.New("request has no instructions and no messages")
)

// Request captures the normalized model input produced by role agents.
type Request struct {
	Instructions string         `json:"instructions"` // System prompt for the model
	Messages     []core.Message `json:"messages"`     // Conversation converted to provider messages
	Stream       bool           `json:"stream,omitempty"`
}

// IsEmpty reports whether the request has nothing to send.
func (r Request) IsEmpty() bool { return r.Instructions == "" && len(r.Messages) == 0 }

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. Partial chunks
// carry text deltas; the final chunk carries the full text.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "end_turn", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required by role agents to drive generation.
//
// Generate returns a response channel and an error channel; both are closed
// once generation has finished. At most one error is sent.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Send delivers r on out unless ctx is done first, in which case ctx.Err()
// goes to errCh and false is returned. Providers use it for every streamed
// chunk so an abandoned stream cannot block its goroutine.
func Send(ctx context.Context, out chan<- Response, errCh chan<- error, r Response) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		errCh <- ctx.Err()
		return false
	}
}

// Collect drains the channels returned by Generate and returns the final
// response. onPartial, when non-nil, is called for every partial chunk.
func Collect(
	ctx context.Context,
	respCh <-chan Response,
	errCh <-chan error,
	onPartial func(Response),
) (Response, error) {
	var final *Response

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()

		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				if onPartial != nil {
					onPartial(resp)
				}
				continue
			}
			r := resp
			final = &r

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}

	if final == nil {
		return Response{}, ErrNoResponse
	}

	return *final, nil
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Responses are looked up by the content of the last request message; the
// request history is recorded for later assertions.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent Generate call fail with err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model; emits optional streaming char chunks then final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	failure := m.err
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)
		if failure != nil {
			errCh <- failure
			return
		}
		if req.IsEmpty() {
			errCh <- ErrEmptyRequest
			return
		}
		var inputText string
		if n := len(req.Messages); n > 0 {
			inputText = req.Messages[n-1].Content
		}
		m.mu.Lock()
		full := m.responses[inputText]
		m.mu.Unlock()
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}
		if req.Stream {
			for _, r := range full {
				if !Send(ctx, respCh, errCh, Response{Partial: true, Text: string(r)}) {
					return
				}
			}
		}
		respCh <- Response{
			ID:           core.NewID(),
			Partial:      false,
			Text:         full,
			FinishReason: "stop",
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
