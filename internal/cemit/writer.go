// Package cemit lowers an ir.Program into C source text (spec §4.7):
// one translation unit per module, with every Function rendered as a
// single C function whose basic blocks become goto-labelled sections.
package cemit

import (
	"fmt"
	"strings"
)

// Writer buffers generated C source in a strings.Builder, grounded on
// the teacher's assembly Writer (src/util/io.go): small, format-string
// driven helpers rather than direct strings.Builder calls scattered
// through the emitter.
type Writer struct {
	sb strings.Builder
}

func (w *Writer) Write(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
}

func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

func (w *Writer) Line(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *Writer) Label(name string) {
	w.sb.WriteString(name)
	w.sb.WriteString(":;\n")
}

func (w *Writer) String() string {
	return w.sb.String()
}
