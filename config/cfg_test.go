package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	rules := cfg.CSS.Rules
	if len(rules) != 3 {
		t.Fatalf("default rules = %d, want 3", len(rules))
	}
	want := []RuleConfig{
		{Contains: ".nativemimic-skin-", Action: RuleActionRemove},
		{Contains: ".nativemimic-speech-controls.nativemimic-dark-mode", Action: RuleActionKeep},
		{Contains: ".nativemimic-dark-mode", Action: RuleActionRemove},
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rule[%d] = %+v, want %+v", i, rules[i], want[i])
		}
	}
	if cfg.CSS.MatchScope != MatchScopeSelector {
		t.Errorf("MatchScope = %v, want selector", cfg.CSS.MatchScope)
	}
	if len(cfg.CSS.SectionMarkers) != 0 {
		t.Errorf("SectionMarkers = %v, want none", cfg.CSS.SectionMarkers)
	}
	if cfg.CSS.OutputSuffix != "-clean" {
		t.Errorf("OutputSuffix = %q, want -clean", cfg.CSS.OutputSuffix)
	}

	icons := cfg.Icons
	if got := icons.Sizes; len(got) != 4 || got[0] != 16 || got[1] != 32 || got[2] != 48 || got[3] != 128 {
		t.Errorf("Sizes = %v, want [16 32 48 128]", got)
	}
	if icons.Glyph != "Q" {
		t.Errorf("Glyph = %q, want Q", icons.Glyph)
	}
	if icons.CornerDivisor != 5 {
		t.Errorf("CornerDivisor = %d, want 5", icons.CornerDivisor)
	}
	if icons.FontScale != 0.6 {
		t.Errorf("FontScale = %f, want 0.6", icons.FontScale)
	}
	if icons.NameTemplate != "icon{{ .Size }}.png" {
		t.Errorf("NameTemplate = %q, template must not be expanded", icons.NameTemplate)
	}
	if len(icons.FontDirs) != 1 {
		t.Errorf("FontDirs = %v, expected single directory", icons.FontDirs)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
css:
  rules:
    - contains: ".legacy-"
  match_scope: block
  section_markers: ["skin-presets", "skin-grid"]
icons:
  sizes: [24, 64]
  glyph: "S"
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(cfg.CSS.Rules) != 1 || cfg.CSS.Rules[0].Contains != ".legacy-" || cfg.CSS.Rules[0].Action != RuleActionRemove {
		t.Errorf("Rules = %+v, want single remove rule for .legacy-", cfg.CSS.Rules)
	}
	if cfg.CSS.MatchScope != MatchScopeBlock {
		t.Errorf("MatchScope = %v, want block", cfg.CSS.MatchScope)
	}
	if len(cfg.CSS.SectionMarkers) != 2 {
		t.Errorf("SectionMarkers = %v", cfg.CSS.SectionMarkers)
	}
	if len(cfg.Icons.Sizes) != 2 || cfg.Icons.Sizes[1] != 64 {
		t.Errorf("Sizes = %v, want [24 64]", cfg.Icons.Sizes)
	}
	if cfg.Icons.Glyph != "S" {
		t.Errorf("Glyph = %q, want S", cfg.Icons.Glyph)
	}
	// untouched values come from defaults
	if cfg.Icons.Background != "#32CD32" {
		t.Errorf("Background = %q, want default", cfg.Icons.Background)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ncss:\n  inspect: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad action", "version: 1\ncss:\n  rules:\n    - contains: \".x\"\n      action: drop\n"},
		{"bad scope", "version: 1\ncss:\n  match_scope: everything\n"},
		{"empty marker", "version: 1\ncss:\n  rules:\n    - contains: \"\"\n"},
		{"no sizes", "version: 1\nicons:\n  sizes: []\n"},
		{"long glyph", "version: 1\nicons:\n  glyph: \"QS\"\n"},
		{"bad color", "version: 1\nicons:\n  background: \"lime\"\n"},
		{"zero divisor", "version: 1\nicons:\n  corner_divisor: 0\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{"action: keep", "match_scope: selector", "name_template:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() output does not contain %q:\n%s", want, out)
		}
	}

	// dumped configuration must load back unchanged
	path := writeConfig(t, out)
	again, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration(dump) error = %v", err)
	}
	if again.CSS.Rules[1].Action != RuleActionKeep || again.Icons.NameTemplate != cfg.Icons.NameTemplate {
		t.Errorf("reloaded config differs: %+v", again.CSS)
	}
}

func TestRuleAction_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    RuleAction
		wantErr bool
	}{
		{"remove", RuleActionRemove, false},
		{"KEEP", RuleActionKeep, false},
		{"drop", RuleActionRemove, true},
	}
	for _, tt := range tests {
		got, err := ParseRuleAction(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRuleAction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRuleAction(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := RuleAction(7).String(); s != "RuleAction(7)" {
		t.Errorf("String() for unknown value = %q", s)
	}
}

func TestMatchScope_UnmarshalText(t *testing.T) {
	var s MatchScope
	if err := s.UnmarshalText([]byte("block")); err != nil || s != MatchScopeBlock {
		t.Errorf("UnmarshalText(block) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown scope")
	}
	if s != MatchScopeBlock {
		t.Error("failed UnmarshalText must not change value")
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"icon16.png", "icon16.png"},
		{"..hidden", "hidden"},
		{"a" + string(os.PathSeparator) + "b.png", "ab.png"},
		{"", "fallback"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.in, "fallback"); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
