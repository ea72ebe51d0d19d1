// Package css gathers lexical statistics about stylesheets. It is used to
// sanity check results of line based filtering and never drives it.
package css

import (
	"bytes"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Stats describes stylesheet as seen by CSS grammar parser.
type Stats struct {
	Rulesets  int
	AtRules   int // both block and statement at-rules
	Comments  int
	Selectors []string
	Err       error // first parse error, nil for well formed input
}

// Inspector walks stylesheets with tdewolff CSS parser.
type Inspector struct {
	log *zap.Logger
}

func NewInspector(log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{log: log.Named("css-inspect")}
}

// Inspect parses data and collects statistics.
func (in *Inspector) Inspect(data []byte) *Stats {
	st := &Stats{}

	p := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, chunk := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && err != io.EOF {
				st.Err = err
				in.log.Debug("CSS parse error", zap.Error(err))
			}
			return st
		case css.CommentGrammar:
			st.Comments++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			st.AtRules++
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			if gt == css.BeginRulesetGrammar {
				st.Rulesets++
			}
			st.Selectors = append(st.Selectors, selectorText(chunk, p.Values()))
		}
	}
}

// selectorText restores selector list from grammar data and its tokens.
func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Matching returns selectors containing any of the markers.
func (st *Stats) Matching(markers ...string) []string {
	var found []string
	for _, sel := range st.Selectors {
		for _, m := range markers {
			if len(m) > 0 && strings.Contains(sel, m) {
				found = append(found, sel)
				break
			}
		}
	}
	return found
}
