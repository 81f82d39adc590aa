package semaphore

import "testing"

func TestRatioToTarget(t *testing.T) {
	tests := []struct {
		name          string
		value, target float64
		tol           float64
		want          Severity
	}{
		{"UnderTarget", 80, 100, DefaultTolerance, Good},
		{"AtTarget", 100, 100, DefaultTolerance, Good},
		{"WithinTolerance", 105, 100, 0.1, Warn},
		{"ToleranceBoundary", 110, 100, 0.1, Warn},
		{"OverTolerance", 130, 100, DefaultTolerance, Bad},
		{"ZeroTarget", 10, 0, DefaultTolerance, Undefined},
		{"NegativeTarget", 10, -5, DefaultTolerance, Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RatioToTarget(tt.value, tt.target, tt.tol); got.Severity != tt.want {
				t.Errorf("RatioToTarget(%v, %v) = %v, want %v", tt.value, tt.target, got.Severity, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		value     float64
		severity  Severity
		wantLabel string
	}{
		{45, Bad, "< 50%"},
		{65, Bad, ">= 50%"},
		{75, Warn, ">= 70%"},
		{95, Good, ">= 90%"},
		{90, Good, ">= 90%"},
		{50, Bad, ">= 50%"},
	}

	for _, tt := range tests {
		got := Percentage(tt.value)
		if got.Severity != tt.severity {
			t.Errorf("Percentage(%v) severity = %v, want %v", tt.value, got.Severity, tt.severity)
		}
		if got.Label != tt.wantLabel {
			t.Errorf("Percentage(%v) label = %q, want %q", tt.value, got.Label, tt.wantLabel)
		}
	}
}

func TestBand_BottomBandsKeepDistinctLabels(t *testing.T) {
	low := Percentage(10)
	mid := Percentage(55)
	if low.Severity != mid.Severity {
		t.Fatalf("both bottom bands should be bad, got %v and %v", low.Severity, mid.Severity)
	}
	if low.Label == mid.Label {
		t.Errorf("bottom bands share label %q", low.Label)
	}
}

func TestBand_GreenExclusive(t *testing.T) {
	b := Band{Red: 60, Yellow: 60, Green: 75, GreenExclusive: true}
	if got := b.Classify(75).Severity; got != Warn {
		t.Errorf("Classify(75) = %v, want warn", got)
	}
	if got := b.Classify(75.01).Severity; got != Good {
		t.Errorf("Classify(75.01) = %v, want good", got)
	}
	if got := b.Classify(59.9).Severity; got != Bad {
		t.Errorf("Classify(59.9) = %v, want bad", got)
	}
}

func TestBand_GreenPlain(t *testing.T) {
	b := Band{Red: 70, Yellow: 70, Green: 90, GreenPlain: true}
	tests := []struct {
		value float64
		want  Severity
	}{
		{100, Plain},
		{90, Plain},
		{89.99, Warn},
		{69.99, Bad},
	}
	for _, tt := range tests {
		if got := b.Classify(tt.value).Severity; got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
	if got := b.Classify(95).Label; got != ">= 90%" {
		t.Errorf("top band label = %q", got)
	}
}

func TestCeilingBand(t *testing.T) {
	b := CeilingBand{Green: 15, Yellow: 25}
	tests := []struct {
		value float64
		want  Severity
	}{
		{0, Good},
		{14.99, Good},
		{15, Warn},
		{25, Warn},
		{25.01, Bad},
	}
	for _, tt := range tests {
		if got := b.Classify(tt.value).Severity; got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestSeverityColor(t *testing.T) {
	if Good.Color() == Bad.Color() || Warn.Color() == Undefined.Color() {
		t.Error("severities should map to distinct colors")
	}
}
