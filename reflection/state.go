package reflection

// State is a node of the loop's finite-state machine.
type State int

const (
	// StateGenerating runs the generator and evaluates the stop policy.
	StateGenerating State = iota
	// StateReflecting runs the critic.
	StateReflecting
	// StateDone is terminal.
	StateDone
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateGenerating:
		return "GENERATING"
	case StateReflecting:
		return "REFLECTING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Node returns the graph node name used in exported diagrams.
func (s State) Node() string {
	switch s {
	case StateGenerating:
		return "generate"
	case StateReflecting:
		return "reflect"
	case StateDone:
		return "__end__"
	default:
		return "unknown"
	}
}

// Transition is a directed edge of the state machine. Conditional edges are
// taken depending on the stop policy.
type Transition struct {
	From        State
	To          State
	Conditional bool
}

// Transitions is the complete transition table of the loop.
var Transitions = []Transition{
	{From: StateGenerating, To: StateReflecting, Conditional: true},
	{From: StateGenerating, To: StateDone, Conditional: true},
	{From: StateReflecting, To: StateGenerating},
}

// CanTransition reports whether the table contains an edge from -> to.
func CanTransition(from, to State) bool {
	for _, t := range Transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
