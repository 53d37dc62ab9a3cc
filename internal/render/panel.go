// Package render writes human-readable console output: result panels and
// the history table. Machine-readable output is the caller's concern.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/query"
)

// panel accumulates lines and remembers the first write error.
type panel struct {
	w   io.Writer
	err error
}

func (p *panel) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format+"\n", args...); err != nil {
		p.err = fmt.Errorf("render: %w", err)
	}
}

func (p *panel) field(label, value string) {
	p.line("  %s %s", Label(label+":"), value)
}

func (p *panel) block(label, text string) {
	p.line("  %s", Label(label+":"))
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		p.line("    %s", l)
	}
}

// Result writes the panel for a recorded query.
func Result(w io.Writer, r *query.Result) error {
	p := &panel{w: w}
	p.line("%s", Title("Query result"))
	p.field("Phrase", r.InputPhrase)
	if r.Model != "" {
		p.field("Model", r.Model)
	}
	p.block("Response", r.AIResponse)
	p.field("Tokens this query", ColorTokens(tokens(r.TokensThisQuery)))
	p.field("Tokens total", ColorTokens(tokens(r.TokensTotal)))
	return p.err
}

// Answer writes the panel for an unrecorded query.
func Answer(w io.Writer, a *query.Answer) error {
	p := &panel{w: w}
	p.line("%s", Title("Query result"))
	p.field("Phrase", a.InputPhrase)
	p.block("Response", a.AIResponse)
	p.field("Tokens used", ColorTokens(tokens(a.TokensUsed)))
	p.line("  %s", colorFaint.Sprint("ledger not updated"))
	return p.err
}

// Failure writes an error panel.
func Failure(w io.Writer, msg string) error {
	p := &panel{w: w}
	p.line("%s %s", colorRed.Sprint("Error:"), msg)
	return p.err
}

// Usage writes the running token total and history size.
func Usage(w io.Writer, total int64, entries int) error {
	p := &panel{w: w}
	p.field("Tokens total", ColorTokens(tokens(total)))
	p.field("History entries", fmt.Sprintf("%d", entries))
	return p.err
}

// History writes entries as a table, newest first, in the order given.
func History(w io.Writer, entries []history.Exchange) error {
	if len(entries) == 0 {
		p := &panel{w: w}
		p.line("%s", colorFaint.Sprint("No history yet."))
		return p.err
	}

	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "When"},
		Column{Header: "Model"},
		Column{Header: "Tokens", Align: AlignRight, Color: ColorTokens},
		Column{Header: "Total", Align: AlignRight},
		Column{Header: "Phrase", MaxWidth: 48},
	)
	for i, e := range entries {
		when := "-"
		if e.Timestamp > 0 {
			when = e.Time().Local().Format(time.DateTime)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", i+1),
			when,
			e.Model,
			tokens(e.TokensThisQuery),
			tokens(e.TokensTotal),
			e.InputPhrase,
		)
	}
	return tbl.Render(w)
}
