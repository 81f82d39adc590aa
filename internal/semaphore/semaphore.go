// Package semaphore maps metric values to a traffic-light severity.
package semaphore

import (
	"strconv"
)

// Severity is the traffic-light class of a value.
type Severity string

const (
	Good      Severity = "good"
	Warn      Severity = "warn"
	Bad       Severity = "bad"
	Undefined Severity = "undefined"
	// Plain carries no color: the value is shown unstyled.
	Plain Severity = ""
)

// Color is the display color associated with the severity.
func (s Severity) Color() string {
	switch s {
	case Good:
		return "#16a34a"
	case Warn:
		return "#f59e0b"
	case Bad:
		return "#dc2626"
	}
	return "#9ca3af"
}

// Icon is a compact marker for text renderings.
func (s Severity) Icon() string {
	switch s {
	case Good:
		return "🟢"
	case Warn:
		return "🟡"
	case Bad:
		return "🔴"
	}
	return "⚪"
}

// Semaphore is a classified value: a severity plus a human label.
type Semaphore struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// DefaultTolerance is the relative slack above target still considered near the threshold.
const DefaultTolerance = 0.1

// RatioToTarget classifies value against a target where lower is better.
// A non-positive target yields Undefined.
func RatioToTarget(value, target, tolerance float64) Semaphore {
	if target <= 0 {
		return Semaphore{Label: "Sin objetivo", Severity: Undefined}
	}
	ratio := value / target
	switch {
	case ratio <= 1:
		return Semaphore{Label: "En objetivo", Severity: Good}
	case ratio <= 1+tolerance:
		return Semaphore{Label: "Cerca del umbral", Severity: Warn}
	default:
		return Semaphore{Label: "Fuera de objetivo", Severity: Bad}
	}
}

// Band classifies a percentage where higher is better.
// Two bad bands exist so that values under Red keep a distinct label.
type Band struct {
	Red    float64 `yaml:"red" json:"red"`
	Yellow float64 `yaml:"yellow" json:"yellow"`
	Green  float64 `yaml:"green" json:"green"`
	// GreenExclusive requires value > Green for Good.
	GreenExclusive bool `yaml:"green_exclusive" json:"green_exclusive,omitempty"`
	// GreenPlain leaves the top band unstyled instead of Good.
	GreenPlain bool `yaml:"green_plain" json:"green_plain,omitempty"`
}

// DefaultBand is the general percentage band.
var DefaultBand = Band{Red: 50, Yellow: 70, Green: 90}

func (b Band) Classify(value float64) Semaphore {
	good := value >= b.Green
	greenLabel := ">= " + pct(b.Green)
	if b.GreenExclusive {
		good = value > b.Green
		greenLabel = "> " + pct(b.Green)
	}
	switch {
	case good && b.GreenPlain:
		return Semaphore{Label: greenLabel, Severity: Plain}
	case good:
		return Semaphore{Label: greenLabel, Severity: Good}
	case value >= b.Yellow:
		return Semaphore{Label: ">= " + pct(b.Yellow), Severity: Warn}
	case value >= b.Red:
		return Semaphore{Label: ">= " + pct(b.Red), Severity: Bad}
	default:
		return Semaphore{Label: "< " + pct(b.Red), Severity: Bad}
	}
}

// Percentage classifies against DefaultBand.
func Percentage(value float64) Semaphore {
	return DefaultBand.Classify(value)
}

// CeilingBand classifies a percentage where lower is better (e.g. abandonment).
type CeilingBand struct {
	Green  float64 `yaml:"green" json:"green"`
	Yellow float64 `yaml:"yellow" json:"yellow"`
}

func (b CeilingBand) Classify(value float64) Semaphore {
	switch {
	case value < b.Green:
		return Semaphore{Label: "< " + pct(b.Green), Severity: Good}
	case value <= b.Yellow:
		return Semaphore{Label: pct(b.Green) + " - " + pct(b.Yellow), Severity: Warn}
	default:
		return Semaphore{Label: "> " + pct(b.Yellow), Severity: Bad}
	}
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
