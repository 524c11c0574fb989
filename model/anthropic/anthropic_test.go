package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_MergesConsecutiveRoles(t *testing.T) {
	msgs := buildMessages([]core.Message{
		core.NewHumanMessage("write a tweet"),
		core.NewHumanMessage("about Go"),
		core.NewAIMessage("generator", "v1"),
		core.NewHumanMessage("shorter"),
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Len(t, msgs[0].Content, 2)
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestBuildMessages_SkipsEmptyContent(t *testing.T) {
	msgs := buildMessages([]core.Message{
		core.NewHumanMessage(""),
		core.NewHumanMessage("hi"),
	})
	require.Len(t, msgs, 1)
	assert.Len(t, msgs[0].Content, 1)
}

func TestModel_GenerateNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "improved"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 4, "output_tokens": 3}
		}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
	})

	respCh, errCh := m.Generate(context.Background(), model.Request{
		Instructions: "you improve tweets",
		Messages:     []core.Message{core.NewHumanMessage("improve this")},
	})
	resp, err := model.Collect(context.Background(), respCh, errCh, nil)
	require.NoError(t, err)
	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, "improved", resp.Text)
	assert.Equal(t, "end_turn", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
}

func TestModel_EmptyRequest(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test-key" })
	respCh, errCh := m.Generate(context.Background(), model.Request{})
	_, err := model.Collect(context.Background(), respCh, errCh, nil)
	assert.ErrorIs(t, err, model.ErrEmptyRequest)
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test-key" })
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.Equal(t, string(anthropic.ModelClaude3_5Sonnet20241022), info.Name)
}

func TestModel_StreamingAbandonedByReceiver(t *testing.T) {
	const deltas = 40

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"type\":\"message\",\"role\":\"assistant\",\"content\":[],\"model\":\"claude-3-5-sonnet-20241022\",\"stop_reason\":null,\"stop_sequence\":null,\"usage\":{\"input_tokens\":5,\"output_tokens\":1}}}\n\n")
		fmt.Fprint(w, "event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n")
		for i := 0; i < deltas; i++ {
			fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"x\"}}\n\n")
		}
		fmt.Fprint(w, "event: content_block_stop\ndata: {\"type\":\"content_block_stop\",\"index\":0}\n\n")
		fmt.Fprint(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
	})

	ctx, cancel := context.WithCancel(context.Background())
	respCh, errCh := m.Generate(ctx, model.Request{
		Messages: []core.Message{core.NewHumanMessage("improve this")},
		Stream:   true,
	})

	require.Eventually(t, func() bool { return len(respCh) == cap(respCh) }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("streaming goroutine stayed blocked after cancellation")
	}
}
