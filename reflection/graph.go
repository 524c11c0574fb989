package reflection

import (
	"fmt"
	"strings"
)

const startNode = "__start__"

// Mermaid renders the static transition table as a Mermaid flowchart.
// Conditional edges are drawn dotted.
func Mermaid() string {
	var b strings.Builder

	b.WriteString("graph TD;\n")
	fmt.Fprintf(&b, "\t%s([%s]):::first\n", startNode, startNode)
	for _, s := range []State{StateGenerating, StateReflecting} {
		fmt.Fprintf(&b, "\t%s(%s)\n", s.Node(), s.Node())
	}
	fmt.Fprintf(&b, "\t%s([%s]):::last\n", StateDone.Node(), StateDone.Node())

	fmt.Fprintf(&b, "\t%s --> %s;\n", startNode, StateGenerating.Node())
	for _, t := range Transitions {
		arrow := "-->"
		if t.Conditional {
			arrow = "-.->"
		}
		fmt.Fprintf(&b, "\t%s %s %s;\n", t.From.Node(), arrow, t.To.Node())
	}

	b.WriteString("\tclassDef default fill:#f2f0ff,line-height:1.2\n")
	b.WriteString("\tclassDef first fill-opacity:0\n")
	b.WriteString("\tclassDef last fill:#bfb6fc\n")

	return b.String()
}
