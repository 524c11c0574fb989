package reflection

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/logging"
)

// Step describes one completed state-machine step. Observers receive a Step
// only after its message has been appended.
type Step struct {
	RunID   string
	State   State        // State that produced the message
	Round   int          // Generation round the step belongs to (1-based)
	Agent   string       // Name of the agent that was invoked
	Message core.Message // Message as appended to the history
	Len     int          // History length after the append
}

// Observer is notified synchronously after every step.
type Observer func(Step)

// StepError reports a role agent failure. It unwraps to the agent's error
// unchanged and matches core.ErrGeneration or core.ErrCritique via errors.Is
// depending on the state it occurred in.
type StepError struct {
	State State
	Round int
	Agent string
	Err   error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("reflection %s round %d (%s): %v", e.State, e.Round, e.Agent, e.Err)
}

// Unwrap returns the underlying agent error.
func (e *StepError) Unwrap() error { return e.Err }

// Is classifies the failure by the state it occurred in.
func (e *StepError) Is(target error) bool {
	switch target {
	case core.ErrGeneration:
		return e.State == StateGenerating
	case core.ErrCritique:
		return e.State == StateReflecting
	}
	return false
}

// Options configures a Loop.
type Options struct {
	// StopPolicy decides when to leave GENERATING for DONE. Defaults to
	// MaxMessages(DefaultMaxMessages).
	StopPolicy StopPolicy
	// Observers are called after every appended message.
	Observers []Observer
	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// Loop sequences a generator and a critic until the stop policy fires.
//
// A Loop holds no per-run state: every Run owns an independent
// ConversationState, so one Loop may serve several sequential or concurrent
// runs as long as its agents tolerate that.
type Loop struct {
	generator core.RoleAgent
	critic    core.RoleAgent
	policy    StopPolicy
	observers []Observer
	logger    logging.Logger
}

// New constructs a Loop around a generator and a critic.
func New(generator, critic core.RoleAgent, optFns ...func(o *Options)) *Loop {
	opts := Options{
		StopPolicy: MaxMessages(DefaultMaxMessages),
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.StopPolicy == nil {
		opts.StopPolicy = MaxMessages(DefaultMaxMessages)
	}

	return &Loop{
		generator: generator,
		critic:    critic,
		policy:    opts.StopPolicy,
		observers: opts.Observers,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// run carries the mutable bookkeeping of a single Run call.
type run struct {
	id     string
	state  *core.ConversationState
	rounds int
	logger logging.Logger
}

// Run builds a ConversationState from the seed messages and drives the state
// machine to completion, returning the final state. On failure it returns a
// nil state and a *StepError; no partial result is returned. The StepError
// wraps the agent's error, so compare with errors.Is or errors.As, never ==.
func (l *Loop) Run(ctx context.Context, seed ...core.Message) (*core.ConversationState, error) {
	if l.generator == nil || l.critic == nil {
		return nil, fmt.Errorf("reflection: %w", core.ErrNilAgent)
	}

	r := &run{
		id:    core.NewID(),
		state: core.NewConversationState(seed...),
	}
	r.logger = l.logger
	if rl, ok := l.logger.(*logging.ReflectLogger); ok {
		r.logger = rl.WithComponent("loop").WithRun(r.id)
	}

	start := time.Now()
	current := StateGenerating
	for current != StateDone {
		next, err := l.step(ctx, r, current)
		if err != nil {
			logging.LogLoop(r.logger, r.rounds, r.state.Len(), time.Since(start), err)
			return nil, err
		}
		if !CanTransition(current, next) {
			err = fmt.Errorf("reflection: illegal transition %s -> %s", current, next)
			logging.LogLoop(r.logger, r.rounds, r.state.Len(), time.Since(start), err)
			return nil, err
		}
		current = next
	}

	logging.LogLoop(r.logger, r.rounds, r.state.Len(), time.Since(start), nil)

	return r.state, nil
}

// step executes the work of the current state and returns the next state.
func (l *Loop) step(ctx context.Context, r *run, current State) (State, error) {
	switch current {
	case StateGenerating:
		r.rounds++
		msg, err := l.invoke(ctx, r, current, l.generator)
		if err != nil {
			return StateDone, err
		}
		// Drafts always come from the ai side, whatever the agent tagged them.
		if !msg.IsAI() {
			msg = msg.Retag(core.RoleAI)
		}
		l.append(r, current, l.generator, msg)
		if l.policy.ShouldStop(r.state.View(), r.rounds) {
			return StateDone, nil
		}
		return StateReflecting, nil

	case StateReflecting:
		msg, err := l.invoke(ctx, r, current, l.critic)
		if err != nil {
			return StateDone, err
		}
		// Feedback is folded back in as if the user asked for a change.
		l.append(r, current, l.critic, msg.Retag(core.RoleHuman))
		return StateGenerating, nil

	default:
		return StateDone, fmt.Errorf("reflection: no step defined for state %s", current)
	}
}

func (l *Loop) invoke(ctx context.Context, r *run, current State, agent core.RoleAgent) (core.Message, error) {
	msg, err := agent.Invoke(ctx, r.state.View())
	if err != nil {
		return core.Message{}, &StepError{State: current, Round: r.rounds, Agent: agent.Name(), Err: err}
	}
	return msg, nil
}

func (l *Loop) append(r *run, current State, agent core.RoleAgent, msg core.Message) {
	r.state.Append(msg)
	logging.LogStep(r.logger, current.String(), r.rounds, r.state.Len())

	step := Step{
		RunID:   r.id,
		State:   current,
		Round:   r.rounds,
		Agent:   agent.Name(),
		Message: msg,
		Len:     r.state.Len(),
	}
	for _, obs := range l.observers {
		obs(step)
	}
}

// Graph returns the loop's transition graph as Mermaid flowchart text.
func (l *Loop) Graph() string { return Mermaid() }
