// Package engine generates a synthetic call-center dataset and serves it
// with the shape of the metrics API.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"time"
)

// GeneratorConfig tunes the synthetic dataset.
type GeneratorConfig struct {
	Seed          int64
	Teams         []string
	AgentsPerTeam int
	Days          int
	Now           time.Time
}

// DefaultTeams includes the bot unit the dashboard excludes by default.
var DefaultTeams = []string{"Banca Empresas", "Seguros", "Tarjetas", "CHATBOT"}

// Record is one agent's activity on one day.
type Record struct {
	Day      time.Time
	Team     string
	TeamUUID string
	Agent    string

	Incoming  int
	SameDay   int
	Opened    int
	Resolved  int
	Abandoned int
	Pending   int

	// FRT holds one first-response time per answered case, in seconds.
	FRT []float64
	// Durations holds one duration per closed conversation, in seconds.
	Durations []float64
}

// Dataset is the generated activity plus the clock it was generated against.
type Dataset struct {
	Now     time.Time
	Records []Record
	Agents  []AgentInfo
}

// AgentInfo identifies one generated agent.
type AgentInfo struct {
	Team     string
	TeamUUID string
	Email    string
	Name     string
}

var firstNames = []string{"ana", "luis", "marta", "jorge", "sofia", "diego", "lucia", "pablo", "elena", "raul"}

// Generate builds the dataset. The same config always yields the same data.
func Generate(cfg GeneratorConfig) *Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if len(cfg.Teams) == 0 {
		cfg.Teams = DefaultTeams
	}
	if cfg.AgentsPerTeam <= 0 {
		cfg.AgentsPerTeam = 3
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	today := truncateDay(cfg.Now)

	ds := &Dataset{Now: cfg.Now}
	for ti, team := range cfg.Teams {
		teamUUID := fmt.Sprintf("00000000-0000-4000-8000-%012d", ti+1)
		for ai := 0; ai < cfg.AgentsPerTeam; ai++ {
			name := firstNames[(ti*cfg.AgentsPerTeam+ai)%len(firstNames)]
			slug := strings.ToLower(strings.ReplaceAll(team, " ", ""))
			ds.Agents = append(ds.Agents, AgentInfo{
				Team:     team,
				TeamUUID: teamUUID,
				Email:    fmt.Sprintf("%s.%d@%s.example.com", name, ai+1, slug),
				Name:     strings.ToUpper(name[:1]) + name[1:],
			})
		}
	}

	for d := cfg.Days - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		for _, ag := range ds.Agents {
			ds.Records = append(ds.Records, sampleRecord(rng, day, ag))
		}
	}
	return ds
}

func sampleRecord(rng *rand.Rand, day time.Time, ag AgentInfo) Record {
	bot := ag.Team == "CHATBOT"
	incoming := 5 + rng.Intn(20)
	if bot {
		incoming *= 3
	}
	sameDay := int(math.Round(float64(incoming) * (0.55 + rng.Float64()*0.45)))
	resolved := int(math.Round(float64(incoming) * (0.6 + rng.Float64()*0.4)))
	abandoned := int(math.Round(float64(incoming-resolved) * rng.Float64()))
	pending := incoming - resolved - abandoned

	answered := sameDay
	frt := make([]float64, answered)
	for i := range frt {
		if bot {
			frt[i] = 1 + rng.Float64()*5
			continue
		}
		// log-normal around two minutes with a heavy tail
		frt[i] = math.Round(math.Exp(4.8 + rng.NormFloat64()*0.9))
	}
	durations := make([]float64, resolved)
	for i := range durations {
		durations[i] = math.Round(180 + rng.ExpFloat64()*420)
	}

	return Record{
		Day:       day,
		Team:      ag.Team,
		TeamUUID:  ag.TeamUUID,
		Agent:     ag.Email,
		Incoming:  incoming,
		SameDay:   sameDay,
		Opened:    incoming,
		Resolved:  resolved,
		Abandoned: abandoned,
		Pending:   pending,
		FRT:       frt,
		Durations: durations,
	}
}

// groupKey identifies an aggregate; unused fields stay empty.
type groupKey struct {
	Day      string
	Team     string
	TeamUUID string
	Agent    string
}

// Agg sums records that share a grouping key.
type Agg struct {
	groupKey

	Incoming, SameDay, Opened, Resolved, Abandoned, Pending int

	FRT       []float64
	Durations []float64
}

// InSLA counts the first responses within maxSeconds.
func (a *Agg) InSLA(maxSeconds float64) int {
	n := 0
	for _, v := range a.FRT {
		if v <= maxSeconds {
			n++
		}
	}
	return n
}

// groupBy folds records into aggregates, sorted by key.
func groupBy(recs []Record, key func(Record) groupKey) []*Agg {
	index := make(map[groupKey]*Agg)
	var order []groupKey
	for _, r := range recs {
		k := key(r)
		a, ok := index[k]
		if !ok {
			a = &Agg{groupKey: k}
			index[k] = a
			order = append(order, k)
		}
		a.Incoming += r.Incoming
		a.SameDay += r.SameDay
		a.Opened += r.Opened
		a.Resolved += r.Resolved
		a.Abandoned += r.Abandoned
		a.Pending += r.Pending
		a.FRT = append(a.FRT, r.FRT...)
		a.Durations = append(a.Durations, r.Durations...)
	}
	slices.SortFunc(order, func(x, y groupKey) int {
		if c := strings.Compare(x.Day, y.Day); c != 0 {
			return c
		}
		if c := strings.Compare(x.Team, y.Team); c != 0 {
			return c
		}
		return strings.Compare(x.Agent, y.Agent)
	})
	out := make([]*Agg, len(order))
	for i, k := range order {
		out[i] = index[k]
	}
	return out
}

func byDayAgent(r Record) groupKey {
	return groupKey{Day: r.Day.Format(dateLayout), Team: r.Team, TeamUUID: r.TeamUUID, Agent: r.Agent}
}

func byAgent(r Record) groupKey {
	return groupKey{Team: r.Team, TeamUUID: r.TeamUUID, Agent: r.Agent}
}

func byTeam(r Record) groupKey {
	return groupKey{Team: r.Team, TeamUUID: r.TeamUUID}
}

func byNothing(Record) groupKey { return groupKey{} }

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// percentile uses the nearest-rank method; empty input yields 0.
func percentile(v []float64, p float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := slices.Clone(v)
	slices.Sort(s)
	rank := int(math.Ceil(p/100*float64(len(s)))) - 1
	rank = max(0, min(rank, len(s)-1))
	return s[rank]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

const dateLayout = "2006-01-02"

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
