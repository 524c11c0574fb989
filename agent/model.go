package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/internal/util"
	"github.com/hupe1980/reflectloop/logging"
	"github.com/hupe1980/reflectloop/model"
)

// ErrEmptyOutput is returned when the model completes without producing any text.
var ErrEmptyOutput = errors.New("model returned empty output")

// Kind distinguishes the two roles a ModelAgent can play.
type Kind int

const (
	// KindGenerator produces (and revises) the candidate artifact.
	KindGenerator Kind = iota
	// KindCritic produces feedback on the latest candidate.
	KindCritic
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindCritic {
		return "critic"
	}
	return "generator"
}

// failure returns the sentinel classifying errors raised by this kind.
func (k Kind) failure() error {
	if k == KindCritic {
		return core.ErrCritique
	}
	return core.ErrGeneration
}

const (
	// DefaultGeneratorInstruction is the system prompt used by NewGenerator.
	DefaultGeneratorInstruction = "You are a writing assistant tasked with producing excellent short social media posts. " +
		"Generate the best post possible for the user's request. " +
		"If the user provides critique, respond with a revised version of your previous attempt."

	// DefaultCriticInstruction is the system prompt used by NewCritic.
	DefaultCriticInstruction = "You are a demanding editor grading a social media post. " +
		"Generate critique and recommendations for the user's submission. " +
		"Always provide detailed recommendations, including requests for length, virality and style."
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewGenerator / NewCritic to override defaults.
type ModelAgentOptions struct {
	Name        string
	Instruction Instruction
	// EnableStreaming requests incremental output from the model; partial
	// chunks are forwarded to OnPartial.
	EnableStreaming bool
	// SwapPerspective flips the role of every message after the first before
	// the request is built, so the latest draft reaches the model as user input.
	SwapPerspective bool
	// MaxHistoryMessages bounds the messages sent to the model (0 = all). The
	// first message is always kept.
	MaxHistoryMessages int
	OnPartial          func(agent, text string)
	Logger             logging.Logger
}

// ModelAgent is a core.RoleAgent backed by a language model.
//
// On every Invoke it resolves its instruction, sends the full conversation
// to the model and returns the completion as a single ai-tagged message
// authored by the agent. Failures are classified as core.ErrGeneration or
// core.ErrCritique depending on Kind.
type ModelAgent struct {
	name               string
	kind               Kind
	llm                model.Model
	instruction        Instruction
	enableStreaming    bool
	swapPerspective    bool
	maxHistoryMessages int
	onPartial          func(agent, text string)
	logger             logging.Logger
}

var _ core.RoleAgent = (*ModelAgent)(nil)

// NewGenerator creates the artifact-producing role agent.
func NewGenerator(llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Name:        "generator",
		Instruction: NewInstructionFromText(DefaultGeneratorInstruction),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModelAgent(KindGenerator, llm, opts)
}

// NewCritic creates the feedback-producing role agent. Perspective swapping
// is enabled by default.
func NewCritic(llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Name:            "critic",
		Instruction:     NewInstructionFromText(DefaultCriticInstruction),
		SwapPerspective: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModelAgent(KindCritic, llm, opts)
}

func newModelAgent(kind Kind, llm model.Model, opts ModelAgentOptions) *ModelAgent {
	return &ModelAgent{
		name:               opts.Name,
		kind:               kind,
		llm:                llm,
		instruction:        opts.Instruction,
		enableStreaming:    opts.EnableStreaming,
		swapPerspective:    opts.SwapPerspective,
		maxHistoryMessages: opts.MaxHistoryMessages,
		onPartial:          opts.OnPartial,
		logger:             logging.OrNoOp(opts.Logger),
	}
}

// Name implements core.RoleAgent.
func (a *ModelAgent) Name() string { return a.name }

// Kind reports whether the agent is a generator or a critic.
func (a *ModelAgent) Kind() Kind { return a.kind }

// Invoke implements core.RoleAgent.
func (a *ModelAgent) Invoke(ctx context.Context, history core.History) (core.Message, error) {
	req, err := a.buildRequest(history)
	if err != nil {
		return core.Message{}, a.fail(err)
	}

	var onPartial func(model.Response)
	if a.onPartial != nil {
		onPartial = func(r model.Response) { a.onPartial(a.name, r.Text) }
	}

	start := time.Now()
	respCh, errCh := a.llm.Generate(ctx, req)
	resp, err := model.Collect(ctx, respCh, errCh, onPartial)
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = ErrEmptyOutput
	}
	a.logCall(resp, time.Since(start), err)
	if err != nil {
		return core.Message{}, a.fail(err)
	}

	return core.NewAIMessage(a.name, resp.Text), nil
}

// buildRequest resolves the instruction and converts the history into a model request.
func (a *ModelAgent) buildRequest(history core.History) (model.Request, error) {
	text, err := a.instruction.Resolve(history)
	if err != nil {
		return model.Request{}, fmt.Errorf("resolve instruction: %w", err)
	}

	instructions, err := util.RenderTemplate(text, a.templateVars(history))
	if err != nil {
		return model.Request{}, fmt.Errorf("render instruction: %w", err)
	}

	messages := history.Messages()
	if a.swapPerspective {
		messages = swapPerspective(messages)
	}
	messages = trimHistory(messages, a.maxHistoryMessages)

	return model.Request{
		Instructions: instructions,
		Messages:     messages,
		Stream:       a.enableStreaming,
	}, nil
}

func (a *ModelAgent) templateVars(history core.History) map[string]any {
	drafts := 0
	for _, m := range history.Messages() {
		if m.IsAI() {
			drafts++
		}
	}
	var last string
	if m, ok := history.Last(); ok {
		last = m.Content
	}
	return map[string]any{
		"agent":    a.name,
		"messages": history.Len(),
		"drafts":   drafts,
		"last":     last,
	}
}

func (a *ModelAgent) fail(err error) error {
	return fmt.Errorf("%s %q: %w: %w", a.kind, a.name, a.kind.failure(), err)
}

func (a *ModelAgent) logCall(resp model.Response, dur time.Duration, err error) {
	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	logging.LogLLMCall(a.logger, a.name, a.llm.Info().Name, tokens, dur, err)
}

// swapPerspective flips human/ai roles of every message after the first one.
// The first message is the original request and keeps its role.
func swapPerspective(messages []core.Message) []core.Message {
	out := make([]core.Message, len(messages))
	for i, m := range messages {
		if i == 0 {
			out[i] = m
			continue
		}
		switch m.Role {
		case core.RoleAI:
			m.Role = core.RoleHuman
		case core.RoleHuman:
			m.Role = core.RoleAI
		}
		out[i] = m
	}
	return out
}

// trimHistory keeps the first message plus the most recent limit-1 messages.
func trimHistory(messages []core.Message, limit int) []core.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	if limit == 1 {
		return messages[:1]
	}
	out := make([]core.Message, 0, limit)
	out = append(out, messages[0])
	return append(out, messages[len(messages)-(limit-1):]...)
}
