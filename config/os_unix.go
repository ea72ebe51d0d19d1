//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// SafeFileName drops characters which cannot be part of a single path
// element. Leading dots are removed so the result never names a hidden file.
func SafeFileName(in, fallback string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == os.PathSeparator || sym == os.PathListSeparator {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		return fallback
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
