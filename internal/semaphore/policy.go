package semaphore

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Mode selects the comparison a Policy applies.
type Mode string

const (
	ModeRatio   Mode = "ratio"
	ModeBand    Mode = "band"
	ModeCeiling Mode = "ceiling"
)

// Policy is a named, self-contained threshold definition.
type Policy struct {
	Mode   Mode   `yaml:"mode" json:"mode"`
	Metric string `yaml:"metric" json:"metric"`

	Target float64 `yaml:"target,omitempty" json:"target,omitempty"`
	// Tolerance is DefaultTolerance when unset; an explicit 0 means no slack.
	Tolerance *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`

	Red            float64 `yaml:"red,omitempty" json:"red,omitempty"`
	Yellow         float64 `yaml:"yellow,omitempty" json:"yellow,omitempty"`
	Green          float64 `yaml:"green,omitempty" json:"green,omitempty"`
	GreenExclusive bool    `yaml:"green_exclusive,omitempty" json:"green_exclusive,omitempty"`
	GreenPlain     bool    `yaml:"green_plain,omitempty" json:"green_plain,omitempty"`
}

// Classify applies the policy to a value.
func (p Policy) Classify(value float64) Semaphore {
	switch p.Mode {
	case ModeRatio:
		return RatioToTarget(value, p.Target, p.tolerance())
	case ModeBand:
		return Band{Red: p.Red, Yellow: p.Yellow, Green: p.Green, GreenExclusive: p.GreenExclusive, GreenPlain: p.GreenPlain}.Classify(value)
	case ModeCeiling:
		return CeilingBand{Green: p.Green, Yellow: p.Yellow}.Classify(value)
	}
	return Semaphore{Label: "Sin objetivo", Severity: Undefined}
}

// Validate checks that the boundaries are ordered for the mode.
func (p Policy) Validate() error {
	switch p.Mode {
	case ModeRatio:
		if p.tolerance() < 0 {
			return errors.New("tolerance must not be negative")
		}
	case ModeBand:
		if p.Red > p.Yellow || p.Yellow > p.Green {
			return fmt.Errorf("band boundaries must satisfy red <= yellow <= green (got %v, %v, %v)", p.Red, p.Yellow, p.Green)
		}
	case ModeCeiling:
		if p.Green > p.Yellow {
			return fmt.Errorf("ceiling boundaries must satisfy green <= yellow (got %v, %v)", p.Green, p.Yellow)
		}
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	return nil
}

func (p Policy) tolerance() float64 {
	if p.Tolerance == nil {
		return DefaultTolerance
	}
	return *p.Tolerance
}

func (p Policy) sameBoundaries(o Policy) bool {
	return p.Mode == o.Mode && p.Target == o.Target && p.tolerance() == o.tolerance() &&
		p.Red == o.Red && p.Yellow == o.Yellow && p.Green == o.Green &&
		p.GreenExclusive == o.GreenExclusive && p.GreenPlain == o.GreenPlain
}

// Policy names used by the views.
const (
	InicioSameDay        = "inicio.same_day"
	InicioAttended       = "inicio.attended"
	InicioResolution     = "inicio.resolution"
	AbandonosResolution  = "abandonos.resolution"
	AbandonosAbandonment = "abandonos.abandonment"
	AbandonosDonut       = "abandonos.donut"
	FRTSLA               = "frt.sla"
	KPIDefault           = "kpi.default"
)

// PolicySet holds every policy by name. Policies for the same metric are kept
// separate even when their boundaries differ.
type PolicySet map[string]Policy

// DefaultPolicies returns the thresholds each dashboard tab ships with.
func DefaultPolicies() PolicySet {
	return PolicySet{
		InicioSameDay:        {Mode: ModeBand, Metric: "same_day", Red: 60, Yellow: 60, Green: 75, GreenExclusive: true},
		InicioAttended:       {Mode: ModeBand, Metric: "same_day", Red: 80, Yellow: 80, Green: 90},
		InicioResolution:     {Mode: ModeBand, Metric: "resolution", Red: 75, Yellow: 75, Green: 85},
		AbandonosResolution:  {Mode: ModeBand, Metric: "resolution", Red: 80, Yellow: 80, Green: 90},
		AbandonosAbandonment: {Mode: ModeCeiling, Metric: "abandonment", Green: 15, Yellow: 25},
		AbandonosDonut:       {Mode: ModeBand, Metric: "case_share", Red: 65, Yellow: 65, Green: 75},
		FRTSLA:               {Mode: ModeBand, Metric: "sla", Red: 70, Yellow: 70, Green: 90, GreenPlain: true},
		KPIDefault:           {Mode: ModeBand, Metric: "kpi", Red: DefaultBand.Red, Yellow: DefaultBand.Yellow, Green: DefaultBand.Green},
	}
}

// Get returns the named policy; unknown names fall back to KPIDefault.
func (s PolicySet) Get(name string) Policy {
	if p, ok := s[name]; ok {
		return p
	}
	log.Warn().Str("policy", name).Msg("Unknown threshold policy, using default band")
	if p, ok := s[KPIDefault]; ok {
		return p
	}
	return Policy{Mode: ModeBand, Red: DefaultBand.Red, Yellow: DefaultBand.Yellow, Green: DefaultBand.Green}
}

// Classify is shorthand for Get(name).Classify(value).
func (s PolicySet) Classify(name string, value float64) Semaphore {
	return s.Get(name).Classify(value)
}

// Divergent lists metrics that are classified by more than one distinct set of boundaries,
// with the names of the policies involved.
func (s PolicySet) Divergent() map[string][]string {
	byMetric := make(map[string][]string)
	for name, p := range s {
		if p.Metric == "" {
			continue
		}
		byMetric[p.Metric] = append(byMetric[p.Metric], name)
	}
	out := make(map[string][]string)
	for metric, names := range byMetric {
		slices.Sort(names)
		first := s[names[0]]
		for _, n := range names[1:] {
			if !first.sameBoundaries(s[n]) {
				out[metric] = names
				break
			}
		}
	}
	return out
}

type policyFile struct {
	Policies map[string]Policy `yaml:"policies"`
}

// LoadPolicies returns the defaults overridden by the YAML file at path.
// An empty path returns the defaults. Overrides replace a policy as a whole;
// names that do not exist in the defaults are rejected.
func LoadPolicies(path string) (PolicySet, error) {
	set := DefaultPolicies()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}
	return set.Merge(data)
}

// Merge applies a YAML override document to a copy of the set.
func (s PolicySet) Merge(data []byte) (PolicySet, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse thresholds: %w", err)
	}

	out := make(PolicySet, len(s))
	for k, v := range s {
		out[k] = v
	}
	for name, p := range file.Policies {
		current, ok := out[name]
		if !ok {
			return nil, fmt.Errorf("unknown threshold policy %q", name)
		}
		if p.Metric == "" {
			p.Metric = current.Metric
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("policy %q: %w", name, err)
		}
		out[name] = p
		log.Debug().Str("policy", name).Str("mode", string(p.Mode)).Msg("Threshold policy overridden")
	}
	return out, nil
}
