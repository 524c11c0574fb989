// Package reflectloop provides a high-level façade over the reflection loop:
// it wires a generator and a critic (model-backed or custom), the stop policy
// and logging into a ready-to-run ReflectLoop. Most applications:
//  1. Load a config.Config (or supply models directly via options)
//  2. Create a ReflectLoop via NewFromConfig() or New()
//  3. Run it synchronously (Run / RunPrompt) or consume steps as they happen (Invoke)
package reflectloop

import (
	"context"
	"fmt"

	"github.com/hupe1980/reflectloop/agent"
	"github.com/hupe1980/reflectloop/config"
	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/logging"
	"github.com/hupe1980/reflectloop/model"
	"github.com/hupe1980/reflectloop/reflection"
)

const defaultStepBuffer = 64

// Options configures a ReflectLoop.
type Options struct {
	// Generator and Critic override the model-backed agents entirely.
	Generator core.RoleAgent
	Critic    core.RoleAgent

	// GeneratorModel backs the default generator. CriticModel backs the
	// default critic and falls back to GeneratorModel when nil.
	GeneratorModel model.Model
	CriticModel    model.Model

	// Extra options applied to the default model-backed agents.
	GeneratorOptions []func(o *agent.ModelAgentOptions)
	CriticOptions    []func(o *agent.ModelAgentOptions)

	// StopPolicy defaults to reflection.MaxMessages(reflection.DefaultMaxMessages).
	StopPolicy reflection.StopPolicy
	Observers  []reflection.Observer

	// EnableStreaming requests incremental model output, forwarded to OnPartial.
	EnableStreaming bool
	OnPartial       func(agent, text string)

	// StepBuffer sizes the step channel returned by Invoke (default 64).
	StepBuffer int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ReflectLoop is the façade aggregating the role agents and the loop.
type ReflectLoop struct {
	opts      Options
	generator core.RoleAgent
	critic    core.RoleAgent
}

// New creates a ReflectLoop from options. Either a Generator or a
// GeneratorModel must be supplied.
func New(optFns ...func(o *Options)) (*ReflectLoop, error) {
	opts := Options{
		StopPolicy: reflection.MaxMessages(reflection.DefaultMaxMessages),
		StepBuffer: defaultStepBuffer,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.StepBuffer < 0 {
		opts.StepBuffer = 0
	}

	generator := opts.Generator
	if generator == nil {
		if opts.GeneratorModel == nil {
			return nil, fmt.Errorf("%w: no generator or generator model", core.ErrConfiguration)
		}
		generator = agent.NewGenerator(opts.GeneratorModel, append([]func(o *agent.ModelAgentOptions){opts.agentDefaults}, opts.GeneratorOptions...)...)
	}

	critic := opts.Critic
	if critic == nil {
		llm := opts.CriticModel
		if llm == nil {
			llm = opts.GeneratorModel
		}
		if llm == nil {
			return nil, fmt.Errorf("%w: no critic or critic model", core.ErrConfiguration)
		}
		critic = agent.NewCritic(llm, append([]func(o *agent.ModelAgentOptions){opts.agentDefaults}, opts.CriticOptions...)...)
	}

	return &ReflectLoop{opts: opts, generator: generator, critic: critic}, nil
}

// NewFromConfig builds provider models, stop policy and logger from cfg and
// then applies optFns on top.
func NewFromConfig(cfg config.Config, optFns ...func(o *Options)) (*ReflectLoop, error) {
	generatorLLM, err := cfg.GeneratorLLM()
	if err != nil {
		return nil, err
	}

	criticLLM, err := cfg.CriticLLM()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	return New(append([]func(o *Options){func(o *Options) {
		o.GeneratorModel = generatorLLM
		o.CriticModel = criticLLM
		o.StopPolicy = cfg.StopPolicy()
		o.EnableStreaming = cfg.Stream
		o.Logger = logger
	}}, optFns...)...)
}

func (o *Options) agentDefaults(a *agent.ModelAgentOptions) {
	a.EnableStreaming = o.EnableStreaming
	a.OnPartial = o.OnPartial
	a.Logger = o.Logger
}

func (r *ReflectLoop) loop(extra ...reflection.Observer) *reflection.Loop {
	return reflection.New(r.generator, r.critic, func(o *reflection.Options) {
		o.StopPolicy = r.opts.StopPolicy
		o.Observers = append(append([]reflection.Observer{}, r.opts.Observers...), extra...)
		o.Logger = r.opts.Logger
	})
}

// Run executes the loop to completion over the given seed messages.
func (r *ReflectLoop) Run(ctx context.Context, seed ...core.Message) (*core.ConversationState, error) {
	return r.loop().Run(ctx, seed...)
}

// RunPrompt seeds the loop with a single human message.
func (r *ReflectLoop) RunPrompt(ctx context.Context, prompt string) (*core.ConversationState, error) {
	return r.Run(ctx, core.NewHumanMessage(prompt))
}

// Result is the terminal outcome delivered by Invoke.
type Result struct {
	State *core.ConversationState
	Err   error
}

// Invoke runs the loop asynchronously. Appended messages are delivered on
// the step channel, buffered up to Options.StepBuffer; a step is dropped
// rather than waited for when the buffer is full, so callers may ignore the
// channel and read only the Result. The step channel is closed before the
// single Result is sent.
func (r *ReflectLoop) Invoke(ctx context.Context, seed ...core.Message) (<-chan reflection.Step, <-chan Result) {
	steps := make(chan reflection.Step, r.opts.StepBuffer)
	result := make(chan Result, 1)

	forward := func(s reflection.Step) {
		select {
		case steps <- s:
		case <-ctx.Done():
		default:
			r.opts.Logger.Warn("step dropped, receiver not keeping up", "round", s.Round, "messages", s.Len)
		}
	}

	go func() {
		defer close(result)

		state, err := r.loop(forward).Run(ctx, seed...)
		close(steps)
		result <- Result{State: state, Err: err}
	}()

	return steps, result
}

// Graph returns the Mermaid rendering of the loop's control flow.
func (r *ReflectLoop) Graph() string { return reflection.Mermaid() }
