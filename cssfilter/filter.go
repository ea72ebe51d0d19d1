// Package cssfilter removes unwanted rule blocks from a stylesheet.
//
// Filtering is line and substring based: there is no tokenizer, a block is
// recognized by its header lines (everything up to the opening brace) and its
// extent is found by counting braces. Lines which are kept are copied to the
// output byte for byte, including line terminators.
package cssfilter

import (
	"strings"

	"qstools/config"
)

// Block describes a single classified rule block (or dropped section).
type Block struct {
	Line    int    // 1-based number of the first header line
	Header  string // header text with whitespace collapsed
	Removed bool
	Marker  string // marker which decided, empty if nothing matched
	Dropped int    // number of lines removed with the block
	Section bool   // dropped by section marker rather than by rule
}

// Result of filtering.
type Result struct {
	Output   []byte
	Original int
	Kept     int
	Removed  int
	Blocks   []Block
}

// RemovedBlocks returns number of removed blocks and sections.
func (r *Result) RemovedBlocks() int {
	n := 0
	for _, b := range r.Blocks {
		if b.Removed {
			n++
		}
	}
	return n
}

type filterState int

const (
	stateScanning  filterState = iota
	stateSkipping              // dropping removed block until its braces balance
	stateBuffering             // collecting block to match against its whole text
	stateSection               // dropping lines up to the next section header
)

// kind of kept block which is still open
type kind int

const (
	kindRule  kind = iota // declarations inside, passed through as is
	kindGroup             // nested rules inside, classified one by one
)

var groupAtRules = []string{"@media", "@supports", "@layer", "@container", "@document", "@-moz-document", "@scope", "@starting-style"}

type filter struct {
	rules *Rules
	out   strings.Builder
	res   *Result

	st        filterState
	depth     int
	current   Block
	pending   []string // header lines waiting for opening brace
	pendingAt int
	buffered  []string
	open      []kind
	inComment bool
}

// Filter returns stylesheet without lines belonging to blocks the rules
// remove. Data is never modified.
func Filter(data []byte, rules *Rules) *Result {
	if rules == nil {
		rules = DefaultRules()
	}

	lines := splitLines(string(data))
	f := &filter{
		rules: rules,
		res:   &Result{Original: len(lines)},
	}
	f.out.Grow(len(data))

	for n, line := range lines {
		switch f.st {
		case stateSkipping:
			f.skip(line)
		case stateBuffering:
			f.buffer(line)
		case stateSection:
			f.section(n, line)
		default:
			f.scan(n, line)
		}
	}
	f.finish()

	f.res.Output = []byte(f.out.String())
	f.res.Removed = f.res.Original - f.res.Kept
	return f.res
}

// splitLines splits text after every line feed, keeping terminators.
func splitLines(text string) []string {
	if len(text) == 0 {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (f *filter) keep(lines ...string) {
	for _, l := range lines {
		f.out.WriteString(l)
	}
	f.res.Kept += len(lines)
}

// scan handles line while no block is being removed.
func (f *filter) scan(n int, line string) {
	trimmed := strings.TrimSpace(line)

	if f.inComment {
		if strings.Contains(trimmed, "*/") {
			f.inComment = false
		}
		f.keepOrPend(line)
		return
	}

	if f.inDeclarations() {
		f.keep(line)
		f.track(line, kindRule)
		return
	}

	if marker, ok := f.rules.sectionMarker(line); ok {
		f.startSection(n, line, marker)
		return
	}

	if isSectionHeader(trimmed) {
		f.flushPending()
		f.keep(line)
		f.inComment = opensComment(trimmed)
		return
	}

	if len(f.pending) == 0 {
		switch {
		case len(trimmed) == 0:
			f.keep(line)
			return
		case strings.HasPrefix(trimmed, "/*"):
			f.keep(line)
			f.inComment = opensComment(trimmed)
			return
		case strings.HasPrefix(trimmed, "}"):
			// closes kept group block
			f.keep(line)
			f.track(line, kindRule)
			return
		}
		f.pendingAt = n
	}

	f.pending = append(f.pending, line)
	if strings.HasPrefix(trimmed, "/*") {
		f.inComment = opensComment(trimmed)
		return
	}
	if !strings.Contains(line, "{") {
		if strings.HasSuffix(trimmed, ";") {
			// statement at-rule (@import, @charset) or stray declaration
			f.flushPending()
		}
		return
	}
	f.startBlock()
}

// keepOrPend treats comment lines in the middle of a multi-line header as
// part of the header.
func (f *filter) keepOrPend(line string) {
	if len(f.pending) > 0 {
		f.pending = append(f.pending, line)
		return
	}
	f.keep(line)
}

func (f *filter) flushPending() {
	f.keep(f.pending...)
	f.pending = nil
}

func (f *filter) inDeclarations() bool {
	return len(f.open) > 0 && f.open[len(f.open)-1] == kindRule
}

// track maintains stack of open kept blocks, first opening brace gets
// requested kind, nested ones are rules.
func (f *filter) track(line string, first kind) {
	k := first
	for _, c := range line {
		switch c {
		case '{':
			f.open = append(f.open, k)
			k = kindRule
		case '}':
			f.closeOpen(1)
		}
	}
}

func (f *filter) closeOpen(n int) {
	f.open = f.open[:max(len(f.open)-n, 0)]
}

// startBlock is called when pending header got its opening brace.
func (f *filter) startBlock() {
	header := strings.Join(f.pending, "")
	f.current = Block{Line: f.pendingAt + 1, Header: compactHeader(header)}

	if isGroupAtRule(header) {
		f.flushPending()
		f.res.Blocks = append(f.res.Blocks, f.current)
		f.track(header, kindGroup)
		return
	}

	f.depth = braceDelta(f.pending...)
	if f.rules.Scope == config.MatchScopeBlock {
		f.buffered, f.pending = f.pending, nil
		if f.depth <= 0 {
			f.closeBuffered()
			return
		}
		f.st = stateBuffering
		return
	}

	remove, marker := f.rules.Classify(header)
	f.current.Marker = marker
	if remove {
		f.current.Removed = true
		f.current.Dropped = len(f.pending)
		f.pending = nil
		if f.depth <= 0 {
			f.endBlock()
			return
		}
		f.st = stateSkipping
		return
	}
	f.flushPending()
	f.res.Blocks = append(f.res.Blocks, f.current)
	f.track(header, kindRule)
}

// skip drops line of removed block, only balanced braces end the block.
func (f *filter) skip(line string) {
	f.current.Dropped++
	f.depth += braceDelta(line)
	if f.depth <= 0 {
		f.endBlock()
	}
}

func (f *filter) endBlock() {
	// excess closing braces belong to enclosing kept blocks
	f.closeOpen(-f.depth)
	f.res.Blocks = append(f.res.Blocks, f.current)
	f.st, f.depth = stateScanning, 0
}

func (f *filter) buffer(line string) {
	f.buffered = append(f.buffered, line)
	f.depth += braceDelta(line)
	if f.depth <= 0 {
		f.closeBuffered()
	}
}

// closeBuffered classifies complete block by its whole text.
func (f *filter) closeBuffered() {
	lines := f.buffered
	f.buffered = nil

	remove, marker := f.rules.Classify(strings.Join(lines, ""))
	f.current.Removed, f.current.Marker = remove, marker
	if remove {
		f.current.Dropped = len(lines)
	} else {
		f.keep(lines...)
	}
	f.endBlock()
}

func (f *filter) startSection(n int, line, marker string) {
	f.current = Block{
		Line:    n + 1,
		Header:  compactHeader(line),
		Removed: true,
		Marker:  marker,
		Section: true,
		Dropped: len(f.pending) + 1,
	}
	if len(f.pending) > 0 {
		f.current.Line = f.pendingAt + 1
	}
	f.pending = nil
	f.inComment = opensComment(strings.TrimSpace(line))
	f.st = stateSection
}

// section drops lines until next section header, header itself is kept.
func (f *filter) section(n int, line string) {
	trimmed := strings.TrimSpace(line)
	if isSectionHeader(trimmed) {
		f.res.Blocks = append(f.res.Blocks, f.current)
		f.st, f.inComment = stateScanning, false
		f.scan(n, line)
		return
	}
	f.current.Dropped++
}

func (f *filter) finish() {
	switch f.st {
	case stateSkipping, stateSection:
		// unterminated, everything to the end is gone
		f.res.Blocks = append(f.res.Blocks, f.current)
	case stateBuffering:
		f.closeBuffered()
	}
	f.flushPending()
}

// isSectionHeader recognizes comments used to separate stylesheet sections:
// "/*" immediately followed by anything but a space.
func isSectionHeader(trimmed string) bool {
	return strings.HasPrefix(trimmed, "/*") && !strings.HasPrefix(trimmed, "/* ")
}

// opensComment reports whether the last comment on the line is left open.
func opensComment(trimmed string) bool {
	i := strings.LastIndex(trimmed, "/*")
	return i >= 0 && !strings.Contains(trimmed[i+2:], "*/")
}

func isGroupAtRule(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, r := range groupAtRules {
		if strings.HasPrefix(h, r) {
			return true
		}
	}
	return false
}

func braceDelta(lines ...string) int {
	d := 0
	for _, l := range lines {
		d += strings.Count(l, "{") - strings.Count(l, "}")
	}
	return d
}

// compactHeader returns header text up to opening brace with whitespace
// collapsed, for reporting only.
func compactHeader(header string) string {
	if i := strings.IndexByte(header, '{'); i >= 0 {
		header = header[:i]
	}
	return strings.Join(strings.Fields(header), " ")
}
