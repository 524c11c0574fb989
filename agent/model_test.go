package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockModelImpl for testing request construction.
type MockModelImpl struct{ mock.Mock }

func (m *MockModelImpl) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	args := m.Called(ctx, req)

	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	if err := args.Error(1); err != nil {
		errCh <- err
	} else {
		respCh <- model.Response{Text: args.String(0), FinishReason: "stop"}
	}

	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *MockModelImpl) Info() model.Info {
	return model.Info{Name: "mock-impl", Provider: "mock"}
}

func reflectionHistory() *core.ConversationState {
	return core.NewConversationState(
		core.NewHumanMessage("Improve: X"),
		core.NewAIMessage("generator", "v1"),
		core.NewMessage(core.RoleHuman, "critic", "feedback1"),
		core.NewAIMessage("generator", "v2"),
	)
}

func TestNewGenerator_Defaults(t *testing.T) {
	llm := &MockModelImpl{}
	gen := NewGenerator(llm)

	assert.Equal(t, "generator", gen.Name())
	assert.Equal(t, KindGenerator, gen.Kind())
	assert.False(t, gen.swapPerspective)
	assert.True(t, gen.instruction.IsStatic())
}

func TestNewCritic_Defaults(t *testing.T) {
	critic := NewCritic(&MockModelImpl{}, func(o *ModelAgentOptions) { o.Name = "editor" })

	assert.Equal(t, "editor", critic.Name())
	assert.Equal(t, KindCritic, critic.Kind())
	assert.True(t, critic.swapPerspective)
}

func TestModelAgent_GeneratorSendsFullHistory(t *testing.T) {
	llm := &MockModelImpl{}
	history := reflectionHistory()

	llm.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return req.Instructions == DefaultGeneratorInstruction &&
			len(req.Messages) == 4 &&
			req.Messages[0].Role == core.RoleHuman &&
			req.Messages[3].Role == core.RoleAI
	})).Return("v3", nil)

	msg, err := NewGenerator(llm).Invoke(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAI, msg.Role)
	assert.Equal(t, "generator", msg.Author)
	assert.Equal(t, "v3", msg.Content)
	assert.Equal(t, 4, history.Len(), "agent must not mutate the history")
	llm.AssertExpectations(t)
}

func TestModelAgent_CriticSwapsPerspective(t *testing.T) {
	llm := &MockModelImpl{}

	llm.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		roles := make([]core.Role, len(req.Messages))
		for i, m := range req.Messages {
			roles[i] = m.Role
		}
		return assert.ObjectsAreEqual(
			[]core.Role{core.RoleHuman, core.RoleHuman, core.RoleAI, core.RoleHuman},
			roles,
		)
	})).Return("feedback2", nil)

	msg, err := NewCritic(llm).Invoke(context.Background(), reflectionHistory())
	require.NoError(t, err)
	assert.Equal(t, core.RoleAI, msg.Role, "critic output is retagged by the loop, not the agent")
	assert.Equal(t, "feedback2", msg.Content)
	llm.AssertExpectations(t)
}

func TestModelAgent_ErrorClassification(t *testing.T) {
	boom := errors.New("service unavailable")

	tests := []struct {
		name     string
		newAgent func(model.Model) *ModelAgent
		sentinel error
	}{
		{"generator", func(m model.Model) *ModelAgent { return NewGenerator(m) }, core.ErrGeneration},
		{"critic", func(m model.Model) *ModelAgent { return NewCritic(m) }, core.ErrCritique},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &MockModelImpl{}
			llm.On("Generate", mock.Anything, mock.Anything).Return("", boom)

			_, err := tt.newAgent(llm).Invoke(context.Background(), reflectionHistory())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestModelAgent_EmptyOutput(t *testing.T) {
	llm := &MockModelImpl{}
	llm.On("Generate", mock.Anything, mock.Anything).Return("   ", nil)

	_, err := NewGenerator(llm).Invoke(context.Background(), reflectionHistory())
	assert.ErrorIs(t, err, ErrEmptyOutput)
	assert.ErrorIs(t, err, core.ErrGeneration)
}

func TestModelAgent_TemplatedInstruction(t *testing.T) {
	llm := model.NewMockModel("mock", "mock")
	gen := NewGenerator(llm, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromText("{{.agent}} drafts so far: {{.drafts}} of {{.messages}}")
	})

	_, err := gen.Invoke(context.Background(), reflectionHistory())
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "generator drafts so far: 2 of 4", reqs[0].Instructions)
}

func TestModelAgent_InstructionError(t *testing.T) {
	boom := errors.New("no prompt")
	llm := &MockModelImpl{}
	gen := NewGenerator(llm, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromFunc(func(core.History) (string, error) { return "", boom })
	})

	_, err := gen.Invoke(context.Background(), reflectionHistory())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, core.ErrGeneration)
	llm.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestModelAgent_StreamingForwardsPartials(t *testing.T) {
	llm := model.NewMockModel("mock", "mock")
	llm.AddResponse("Improve: X", "draft")

	var streamed strings.Builder
	gen := NewGenerator(llm, func(o *ModelAgentOptions) {
		o.EnableStreaming = true
		o.OnPartial = func(agent, text string) {
			assert.Equal(t, "generator", agent)
			streamed.WriteString(text)
		}
	})

	msg, err := gen.Invoke(context.Background(), core.NewConversationState(core.NewHumanMessage("Improve: X")))
	require.NoError(t, err)
	assert.Equal(t, "draft", msg.Content)
	assert.Equal(t, "draft", streamed.String())
}

func TestTrimHistory(t *testing.T) {
	msgs := reflectionHistory().Messages()

	assert.Len(t, trimHistory(msgs, 0), 4)
	assert.Len(t, trimHistory(msgs, 10), 4)

	one := trimHistory(msgs, 1)
	require.Len(t, one, 1)
	assert.Equal(t, "Improve: X", one[0].Content)

	two := trimHistory(msgs, 2)
	require.Len(t, two, 2)
	assert.Equal(t, "Improve: X", two[0].Content)
	assert.Equal(t, "v2", two[1].Content)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "generator", KindGenerator.String())
	assert.Equal(t, "critic", KindCritic.String())
}
