package css_test

import (
	"testing"

	"go.uber.org/zap"

	"qstools/css"
)

func TestInspector_Counts(t *testing.T) {
	in := css.NewInspector(zap.NewNop())

	st := in.Inspect([]byte(`@import url("base.css");
.a { color: red; }
@media (max-width: 600px) {
  .b { margin: 0; }
}
`))
	if st.Err != nil {
		t.Fatalf("unexpected parse error: %v", st.Err)
	}
	if st.Rulesets != 2 {
		t.Errorf("Rulesets = %d, want 2", st.Rulesets)
	}
	if st.AtRules != 2 {
		t.Errorf("AtRules = %d, want 2", st.AtRules)
	}
	if len(st.Selectors) != 2 {
		t.Errorf("Selectors = %v, want 2 entries", st.Selectors)
	}
}

func TestInspector_Empty(t *testing.T) {
	st := css.NewInspector(nil).Inspect(nil)
	if st.Err != nil {
		t.Errorf("empty input must not produce error, got %v", st.Err)
	}
	if st.Rulesets != 0 || len(st.Selectors) != 0 {
		t.Errorf("unexpected stats for empty input: %+v", st)
	}
}

func TestStats_Matching(t *testing.T) {
	st := css.NewInspector(nil).Inspect([]byte(`.nativemimic-speech-controls.nativemimic-dark-mode .x { color: white; }
.nativemimic-widget { color: black; }
`))

	if got := st.Matching(".nativemimic-dark-mode"); len(got) != 1 {
		t.Errorf("Matching(dark-mode) = %v, want one selector", got)
	}
	if got := st.Matching(".nativemimic-skin-"); len(got) != 0 {
		t.Errorf("Matching(skin) = %v, want none", got)
	}
	if got := st.Matching("", ".nativemimic-"); len(got) != 2 {
		t.Errorf("Matching with empty marker = %v, want both selectors", got)
	}
}
