package cssfilter

import (
	"strings"

	"qstools/config"
)

// Rule is a single entry of the ordered removal pattern set.
type Rule struct {
	Marker string
	Action config.RuleAction
}

// Rules decides which blocks are dropped from the stylesheet.
type Rules struct {
	// Ordered, first rule with marker found in the text decides.
	Rules []Rule
	Scope config.MatchScope
	// Rule level lines containing any of these start a dropped section.
	SectionMarkers []string
}

// DefaultRules returns pattern set of the extension stylesheet cleanup: skin
// system and general dark mode go, dark mode of speech controls stays.
func DefaultRules() *Rules {
	return &Rules{
		Rules: []Rule{
			{Marker: ".nativemimic-skin-", Action: config.RuleActionRemove},
			{Marker: ".nativemimic-speech-controls.nativemimic-dark-mode", Action: config.RuleActionKeep},
			{Marker: ".nativemimic-dark-mode", Action: config.RuleActionRemove},
		},
		Scope: config.MatchScopeSelector,
	}
}

// RulesFromConfig converts configuration into pattern set.
func RulesFromConfig(cfg *config.CSSConfig) *Rules {
	r := &Rules{
		Rules:          make([]Rule, 0, len(cfg.Rules)),
		Scope:          cfg.MatchScope,
		SectionMarkers: cfg.SectionMarkers,
	}
	for _, rc := range cfg.Rules {
		r.Rules = append(r.Rules, Rule{Marker: rc.Contains, Action: rc.Action})
	}
	return r
}

// Classify reports whether block with given text has to be removed and which
// marker made the decision. Empty marker means no rule matched.
func (r *Rules) Classify(text string) (bool, string) {
	for _, rule := range r.Rules {
		if len(rule.Marker) > 0 && strings.Contains(text, rule.Marker) {
			return rule.Action == config.RuleActionRemove, rule.Marker
		}
	}
	return false, ""
}

func (r *Rules) sectionMarker(line string) (string, bool) {
	for _, m := range r.SectionMarkers {
		if len(m) > 0 && strings.Contains(line, m) {
			return m, true
		}
	}
	return "", false
}
