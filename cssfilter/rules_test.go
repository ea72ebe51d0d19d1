package cssfilter

import (
	"testing"

	"qstools/config"
)

func TestRules_Classify(t *testing.T) {
	tests := []struct {
		text       string
		wantRemove bool
		wantMarker string
	}{
		{".nativemimic-skin-grid", true, ".nativemimic-skin-"},
		{".nativemimic-skin-grid.nativemimic-speech-controls.nativemimic-dark-mode", true, ".nativemimic-skin-"},
		{".nativemimic-speech-controls.nativemimic-dark-mode .btn", false, ".nativemimic-speech-controls.nativemimic-dark-mode"},
		{".nativemimic-dark-mode .panel", true, ".nativemimic-dark-mode"},
		{".nativemimic-panel", false, ""},
	}

	rules := DefaultRules()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			remove, marker := rules.Classify(tt.text)
			if remove != tt.wantRemove || marker != tt.wantMarker {
				t.Errorf("Classify() = %v, %q, want %v, %q", remove, marker, tt.wantRemove, tt.wantMarker)
			}
		})
	}
}

func TestRules_EmptyMarkerIgnored(t *testing.T) {
	rules := &Rules{Rules: []Rule{{Marker: "", Action: config.RuleActionRemove}}}
	if remove, _ := rules.Classify(".anything"); remove {
		t.Error("empty marker must never match")
	}
	if _, ok := rules.sectionMarker("/*anything*/"); ok {
		t.Error("no section markers configured")
	}
}

func TestRulesFromConfig(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	got := RulesFromConfig(&cfg.CSS)
	want := DefaultRules()
	if len(got.Rules) != len(want.Rules) {
		t.Fatalf("got %d rules, want %d", len(got.Rules), len(want.Rules))
	}
	for i := range want.Rules {
		if got.Rules[i] != want.Rules[i] {
			t.Errorf("rule %d = %+v, want %+v", i, got.Rules[i], want.Rules[i])
		}
	}
	if got.Scope != config.MatchScopeSelector {
		t.Errorf("Scope = %v", got.Scope)
	}
	if len(got.SectionMarkers) != 0 {
		t.Errorf("SectionMarkers = %v", got.SectionMarkers)
	}
}
