package semaphore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicies_ViewThresholds(t *testing.T) {
	set := DefaultPolicies()
	tests := []struct {
		policy string
		value  float64
		want   Severity
	}{
		{InicioResolution, 84.9, Warn},
		{InicioResolution, 85, Good},
		{InicioResolution, 74.9, Bad},
		{AbandonosResolution, 85, Warn},
		{AbandonosResolution, 79.99, Bad},
		{AbandonosResolution, 90, Good},
		{AbandonosAbandonment, 20, Warn},
		{AbandonosAbandonment, 30, Bad},
		{AbandonosDonut, 70, Warn},
		{AbandonosDonut, 64, Bad},
		{InicioSameDay, 75, Warn},
		{InicioSameDay, 76, Good},
		{InicioAttended, 89, Warn},
		{FRTSLA, 69, Bad},
		{FRTSLA, 80, Warn},
		{FRTSLA, 89.99, Warn},
		{FRTSLA, 90, Plain},
		{FRTSLA, 95, Plain},
	}
	for _, tt := range tests {
		if got := set.Classify(tt.policy, tt.value).Severity; got != tt.want {
			t.Errorf("%s(%v) = %v, want %v", tt.policy, tt.value, got, tt.want)
		}
	}
}

func TestPolicySet_UnknownFallsBackToDefault(t *testing.T) {
	got := DefaultPolicies().Classify("does.not.exist", 75)
	if got.Severity != Warn {
		t.Errorf("fallback classification = %v, want warn", got.Severity)
	}
}

func TestPolicySet_Divergent(t *testing.T) {
	div := DefaultPolicies().Divergent()
	names, ok := div["resolution"]
	if !ok {
		t.Fatal("resolution policies should be reported as divergent")
	}
	if len(names) != 2 {
		t.Errorf("expected 2 resolution policies, got %v", names)
	}
	if _, ok := div["sla"]; ok {
		t.Error("sla has a single policy and must not be reported")
	}
}

func TestLoadPolicies_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	content := `
policies:
  abandonos.resolution:
    mode: band
    red: 75
    yellow: 75
    green: 85
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadPolicies(path)
	if err != nil {
		t.Fatalf("LoadPolicies: %v", err)
	}
	if got := set.Classify(AbandonosResolution, 86).Severity; got != Good {
		t.Errorf("overridden policy classified 86 as %v, want good", got)
	}
	if got := set[AbandonosResolution].Metric; got != "resolution" {
		t.Errorf("metric should be inherited, got %q", got)
	}
	if len(set.Divergent()) != 1 {
		t.Errorf("after aligning resolution only same_day should diverge, got %v", set.Divergent())
	}
}

func TestPolicy_ZeroToleranceIsExplicit(t *testing.T) {
	content := `
policies:
  kpi.default:
    mode: ratio
    target: 100
    tolerance: 0
  inicio.attended:
    mode: ratio
    target: 100
`
	set, err := DefaultPolicies().Merge([]byte(content))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := set.Classify(KPIDefault, 101).Severity; got != Bad {
		t.Errorf("zero tolerance classified 101 as %v, want bad", got)
	}
	if got := set.Classify(KPIDefault, 100).Severity; got != Good {
		t.Errorf("zero tolerance classified 100 as %v, want good", got)
	}
	if got := set.Classify(InicioAttended, 105).Severity; got != Warn {
		t.Errorf("unset tolerance classified 105 as %v, want warn", got)
	}
}

func TestLoadPolicies_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownName", "policies:\n  nope:\n    mode: band\n"},
		{"UnorderedBand", "policies:\n  frt.sla:\n    mode: band\n    red: 90\n    yellow: 70\n    green: 80\n"},
		{"UnknownMode", "policies:\n  frt.sla:\n    mode: rainbow\n"},
		{"Malformed", "policies: [1, 2"},
		{"NegativeTolerance", "policies:\n  kpi.default:\n    mode: ratio\n    target: 100\n    tolerance: -0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DefaultPolicies().Merge([]byte(tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadPolicies_EmptyPath(t *testing.T) {
	set, err := LoadPolicies("")
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != len(DefaultPolicies()) {
		t.Errorf("expected defaults, got %d policies", len(set))
	}
}
