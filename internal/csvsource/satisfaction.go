package csvsource

import (
	"fmt"
	"slices"
	"strings"

	"ccdash/internal/stats"
)

// Survey level display names.
const (
	VeryDissatisfied = "Muy Insatisfecho"
	Dissatisfied     = "Insatisfecho"
	Neutral          = "Neutral"
	Satisfied        = "Satisfecho"
	VerySatisfied    = "Muy Satisfecho"
)

// SurveyLevels is the pivot column order, worst first.
var SurveyLevels = []string{VeryDissatisfied, Dissatisfied, Neutral, Satisfied, VerySatisfied}

// SurveyChartOrder is the chart category order, best first.
var SurveyChartOrder = []string{VerySatisfied, Satisfied, Neutral, Dissatisfied, VeryDissatisfied}

// SurveyColors maps each level to its bar color.
var SurveyColors = map[string]string{
	VeryDissatisfied: "#d32f2f",
	Dissatisfied:     "#ef6c00",
	Neutral:          "#fbc02d",
	Satisfied:        "#8bc34a",
	VerySatisfied:    "#2e7d32",
}

var surveyLabels = map[string]string{
	"1. Muy insatisfecho": VeryDissatisfied,
	"2. Insatisfecho":     Dissatisfied,
	"3. Neutral":          Neutral,
	"4. Satisfecho":       Satisfied,
	"5. Muy satisfecho":   VerySatisfied,
}

// SurveyLabel maps a raw survey answer to its display name. Unknown answers pass through.
func SurveyLabel(raw string) string {
	if l, ok := surveyLabels[raw]; ok {
		return l
	}
	return raw
}

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// AgentSurvey is one row of the per-agent pivot; Levels aligns with SurveyLevels.
type AgentSurvey struct {
	Agent  string     `json:"agent"`
	Levels []int      `json:"levels"`
	Flag   stats.Flag `json:"flag,omitempty"`
}

// Survey is the satisfaction summary of reporte.csv.
type Survey struct {
	Counts  []Count       `json:"counts"`
	ByAgent []AgentSurvey `json:"by_agent,omitempty"`
	// HasAgents is false when the export carries no Agente column.
	HasAgents bool `json:"has_agents"`
}

// Satisfaction summarizes the survey column. The agent holding the most
// "Muy Insatisfecho" answers is flagged worst; failing that, the agent with
// the most "Muy Satisfecho" answers is flagged best. Ties all qualify.
func Satisfaction(t Table) (Survey, error) {
	answers, ok := t.Column("Satisfaccion")
	if !ok {
		return Survey{}, fmt.Errorf("%w: Satisfaccion", ErrMissingColumn)
	}

	display := make([]string, len(answers))
	for i, a := range answers {
		display[i] = SurveyLabel(a)
	}

	out := Survey{Counts: countLabels(display, SurveyChartOrder)}

	agents, ok := t.Column("Agente")
	if !ok {
		return out, nil
	}
	out.HasAgents = true

	pivot := make(map[string][]int)
	for i, agent := range agents {
		if strings.TrimSpace(agent) == "" || display[i] == "" {
			continue
		}
		levels, seen := pivot[agent]
		if !seen {
			levels = make([]int, len(SurveyLevels))
			pivot[agent] = levels
		}
		if pos := slices.Index(SurveyLevels, display[i]); pos >= 0 {
			levels[pos]++
		}
	}

	names := make([]string, 0, len(pivot))
	for a := range pivot {
		names = append(names, a)
	}
	slices.Sort(names)

	worst, best := 0, 0
	for _, a := range names {
		worst = max(worst, pivot[a][0])
		best = max(best, pivot[a][len(SurveyLevels)-1])
	}
	for _, a := range names {
		row := AgentSurvey{Agent: a, Levels: pivot[a]}
		switch {
		case worst > 0 && row.Levels[0] == worst:
			row.Flag = stats.FlagWorst
		case best > 0 && row.Levels[len(SurveyLevels)-1] == best:
			row.Flag = stats.FlagBest
		}
		out.ByAgent = append(out.ByAgent, row)
	}
	return out, nil
}

// countLabels counts non-empty labels. Known labels follow order; the rest
// follow by descending count, then name.
func countLabels(values []string, order []string) []Count {
	totals := make(map[string]int)
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		totals[v]++
	}
	var out []Count
	for _, l := range order {
		if n := totals[l]; n > 0 {
			out = append(out, Count{Label: l, Total: n})
			delete(totals, l)
		}
	}
	var rest []Count
	for l, n := range totals {
		rest = append(rest, Count{Label: l, Total: n})
	}
	slices.SortFunc(rest, func(a, b Count) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		return strings.Compare(a.Label, b.Label)
	})
	return append(out, rest...)
}
