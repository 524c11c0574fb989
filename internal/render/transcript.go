// Package render prints conversation transcripts and run summaries for the
// command line examples.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/reflection"
)

// Printer writes messages with a colored header per role.
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter creates a Printer. With plain set, no ANSI styling is emitted.
func NewPrinter(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, plain: plain}
}

func (p *Printer) style(role core.Role) color.Style {
	if role == core.RoleHuman {
		return color.New(color.BgBlack, color.FgCyan)
	}
	return color.New(color.BgBlack, color.FgGreen)
}

// Header formats the line printed above a message body.
func (p *Printer) Header(index int, m core.Message) string {
	header := fmt.Sprintf("--- #%d %s (%s) ---", index, m.Role, m.Author)
	if p.plain {
		return header
	}
	return p.style(m.Role).Render(header)
}

// Message prints a single message.
func (p *Printer) Message(index int, m core.Message) {
	fmt.Fprintf(p.w, "%s\n%s\n\n", p.Header(index, m), strings.TrimSpace(m.Content))
}

// Step prints a message as it is appended by the loop.
func (p *Printer) Step(s reflection.Step) {
	p.Message(s.Len-1, s.Message)
}

// Transcript prints every message of a history in order.
func (p *Printer) Transcript(h core.History) {
	for i, m := range h.Messages() {
		p.Message(i, m)
	}
}

// Summary renders one table row per message: index, role, author and size.
func (p *Printer) Summary(h core.History) {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"#", "Role", "Author", "Chars"})
	table.AppendBulk(lo.Map(h.Messages(), func(m core.Message, i int) []string {
		return []string{strconv.Itoa(i), m.Role.String(), m.Author, strconv.Itoa(len(m.Content))}
	}))
	table.Render()
}
