// Package reflection implements the generate / reflect refinement loop.
//
// A Loop alternates between two core.RoleAgent instances: a generator that
// produces a candidate artifact and a critic that reviews it. The loop is an
// explicit finite-state machine:
//
//	GENERATING --(stop policy true)--> DONE
//	GENERATING --(stop policy false)-> REFLECTING
//	REFLECTING ----------------------> GENERATING
//
// The stop policy is evaluated only when leaving GENERATING, so a finished
// conversation always ends on a generator-produced message. Critic output is
// re-tagged as human input before it is appended, which lets a two-role
// message schema carry a user / generator / critic dialogue.
//
// Execution is synchronous and single-threaded: each step blocks until the
// invoked agent returns. Failures are not retried; the first agent error aborts
// the run and is returned wrapped in a *StepError.
package reflection
