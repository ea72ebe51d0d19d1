package config

import (
	"fmt"
	"strings"
)

// RuleAction is the decision taken when a rule marker is found in a block.
type RuleAction int

const (
	RuleActionRemove RuleAction = iota
	RuleActionKeep
)

var ruleActionNames = []string{"remove", "keep"}

func (a RuleAction) String() string {
	if a < 0 || int(a) >= len(ruleActionNames) {
		return fmt.Sprintf("RuleAction(%d)", int(a))
	}
	return ruleActionNames[a]
}

// ParseRuleAction converts name to RuleAction.
func ParseRuleAction(name string) (RuleAction, error) {
	for i, n := range ruleActionNames {
		if strings.EqualFold(n, name) {
			return RuleAction(i), nil
		}
	}
	return RuleActionRemove, fmt.Errorf("%q is not a valid rule action, expected one of [%s]", name, strings.Join(ruleActionNames, ", "))
}

func (a RuleAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *RuleAction) UnmarshalText(text []byte) error {
	v, err := ParseRuleAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MatchScope selects which part of a rule block is matched against markers.
// "selector" looks only at the header lines (everything up to the opening
// brace), "block" looks at the whole block including declarations.
type MatchScope int

const (
	MatchScopeSelector MatchScope = iota
	MatchScopeBlock
)

var matchScopeNames = []string{"selector", "block"}

func (s MatchScope) String() string {
	if s < 0 || int(s) >= len(matchScopeNames) {
		return fmt.Sprintf("MatchScope(%d)", int(s))
	}
	return matchScopeNames[s]
}

// ParseMatchScope converts name to MatchScope.
func ParseMatchScope(name string) (MatchScope, error) {
	for i, n := range matchScopeNames {
		if strings.EqualFold(n, name) {
			return MatchScope(i), nil
		}
	}
	return MatchScopeSelector, fmt.Errorf("%q is not a valid match scope, expected one of [%s]", name, strings.Join(matchScopeNames, ", "))
}

func (s MatchScope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MatchScope) UnmarshalText(text []byte) error {
	v, err := ParseMatchScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
