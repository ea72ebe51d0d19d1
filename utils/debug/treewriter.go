// Package debug has helpers producing human readable artifacts for debug
// report.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented text, one node per line.
type TreeWriter struct {
	w strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) Bytes() []byte {
	return []byte(tw.w.String())
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.w.WriteString(indent)
	}
}

// Line writes formatted node at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled text value quoted, so multi-line source fragments
// stay on a single line.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quote(value))
	tw.w.WriteByte('\n')
}

// Fields writes space separated key=value pairs, odd trailing key gets empty
// value.
func (tw *TreeWriter) Fields(depth int, kv ...any) {
	tw.pad(depth)
	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			tw.w.WriteByte(' ')
		}
		fmt.Fprint(&tw.w, kv[i])
		tw.w.WriteByte('=')
		if i+1 < len(kv) {
			if s, ok := kv[i+1].(string); ok {
				tw.w.WriteString(quote(s))
			} else {
				fmt.Fprint(&tw.w, kv[i+1])
			}
		}
	}
	tw.w.WriteByte('\n')
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
