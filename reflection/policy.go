package reflection

import "github.com/hupe1980/reflectloop/core"

// DefaultMaxMessages is the message-count bound of the default stop policy:
// the loop stops once the history holds more than this many messages.
const DefaultMaxMessages = 5

// StopPolicy decides whether the loop terminates. It is consulted only right
// after a generation step, with the post-append history and the number of
// generation rounds completed so far.
type StopPolicy interface {
	ShouldStop(history core.History, rounds int) bool
}

// StopPolicyFunc adapts an ordinary function into a StopPolicy.
type StopPolicyFunc func(history core.History, rounds int) bool

// ShouldStop implements StopPolicy.
func (f StopPolicyFunc) ShouldStop(history core.History, rounds int) bool { return f(history, rounds) }

// MaxMessages stops when the total message count, seed messages included,
// exceeds the bound. With one seed message and a bound of 5 this yields three
// generation rounds; additional seed messages shorten the run.
type MaxMessages int

// ShouldStop implements StopPolicy.
func (m MaxMessages) ShouldStop(history core.History, _ int) bool {
	return history.Len() > int(m)
}

// MaxRounds stops after a fixed number of generation rounds regardless of how
// many seed messages the run started with.
type MaxRounds int

// ShouldStop implements StopPolicy.
func (r MaxRounds) ShouldStop(_ core.History, rounds int) bool {
	return rounds >= int(r)
}
