// Package diagnostics provides an append-only collector of compiler
// messages. Every pipeline stage receives a *Bag and appends to it; the
// driver queries HasErrors/All after each stage boundary.
package diagnostics

import (
	"fmt"
	"sort"
	"sync"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

// String returns a print friendly name for the severity.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Position is a 1-indexed line/column plus 0-indexed byte offset into a
// source buffer.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span is a half-open source range: Start is inclusive, End is exclusive.
type Span struct {
	Start  Position
	End    Position
	FileID int
}

// Diagnostic is a single structured compiler message.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
}

// String renders the diagnostic in a print-friendly "line:col: severity:
// message" form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message)
}

// Bag is an append-only, chronologically ordered collector of
// Diagnostics. It is safe for concurrent use by many appenders, mirroring
// the teacher's perror type, but collapses perror's goroutine-and-channel
// listener into a plain mutex-guarded slice: a compile is single-threaded
// per stage, so there is no producer/consumer boundary to arbitrate.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewBag returns an empty Bag with n pre-allocated slots.
func NewBag(n int) *Bag {
	if n < 1 {
		n = 16
	}
	return &Bag{items: make([]Diagnostic, 0, n)}
}

// Add appends a Diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

// Addf appends a Diagnostic built from a severity, span and format string.
func (b *Bag) Addf(sev Severity, span Span, format string, args ...interface{}) {
	b.Add(Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Span: span})
}

// HasErrors reports whether the bag contains any Error-severity
// Diagnostic. The pipeline halts at the next stage boundary when this is
// true.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns a snapshot of every Diagnostic added so far, in
// chronological order.
func (b *Bag) All() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Errors returns only the Error-severity diagnostics, in chronological
// order.
func (b *Bag) Errors() []Diagnostic {
	return b.filter(Error)
}

// Warnings returns only the Warning-severity diagnostics, in
// chronological order.
func (b *Bag) Warnings() []Diagnostic {
	return b.filter(Warning)
}

func (b *Bag) filter(sev Severity) []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the total number of diagnostics collected so far.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// SortStable orders the diagnostics by span start position, keeping
// chronological order among diagnostics that share a position. No dedup
// is performed; duplicate messages at the same span are expected and
// kept.
func (b *Bag) SortStable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		si, sj := b.items[i].Span.Start, b.items[j].Span.Start
		if si.Line != sj.Line {
			return si.Line < sj.Line
		}
		return si.Column < sj.Column
	})
}
