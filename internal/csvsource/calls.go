package csvsource

import (
	"slices"
	"strings"
)

// Normalized call states.
const (
	StatusResolved   = "Resuelto"
	StatusAbandoned  = "Abandonado"
	StatusInProgress = "En curso"
)

// StatusOrder is the chart category order.
var StatusOrder = []string{StatusResolved, StatusInProgress, StatusAbandoned}

// StatusColors maps each normalized state to its bar color.
var StatusColors = map[string]string{
	StatusResolved:   "#2e7d32",
	StatusAbandoned:  "#d32f2f",
	StatusInProgress: "#fbc02d",
}

var statusAliases = map[string]string{
	"success":    StatusResolved,
	"resolved":   StatusResolved,
	"resuelto":   StatusResolved,
	"abandonado": StatusAbandoned,
	"abandoned":  StatusAbandoned,
	"activa":     StatusInProgress,
	"en curso":   StatusInProgress,
	"active":     StatusInProgress,
}

// NormalizeStatus maps telephony states to the dashboard vocabulary.
// Unknown values are returned unchanged.
func NormalizeStatus(raw string) string {
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return raw
}

// Column names of detalle_llamadas.csv.
const (
	ColDate     = "Fecha"
	ColAgent    = "Agente"
	ColAgentAlt = "Agente2"
	ColDuration = "Duración"
	ColWait     = "Tiempo Espera"
	ColStatus   = "Estado"
)

// AgentCalls aggregates the calls handled by one agent.
type AgentCalls struct {
	Agent       string  `json:"agent"`
	Total       int     `json:"total"`
	AvgDuration float64 `json:"avg_duration_seconds"`
	AvgWait     float64 `json:"avg_wait_seconds"`
}

// CallSummary is the aggregate view of a call detail export.
type CallSummary struct {
	Total       int          `json:"total"`
	AvgDuration float64      `json:"avg_duration_seconds"`
	AvgWait     float64      `json:"avg_wait_seconds"`
	ByStatus    []Count      `json:"by_status,omitempty"`
	ByAgent     []AgentCalls `json:"by_agent,omitempty"`
}

// Calls summarizes a call detail table. Absent duration or wait columns average to 0.
// Agents are taken from Agente2 when present, else Agente.
func Calls(t Table) CallSummary {
	out := CallSummary{Total: t.Len()}

	durations, _ := t.Column(ColDuration)
	waits, _ := t.Column(ColWait)
	out.AvgDuration = meanOf(durations, ParseSeconds)
	out.AvgWait = meanOf(waits, ParseSeconds)

	if states, ok := t.Column(ColStatus); ok {
		display := make([]string, len(states))
		for i, s := range states {
			display[i] = NormalizeStatus(s)
		}
		out.ByStatus = countLabels(display, StatusOrder)
	}

	agentCol := ColAgent
	if t.Has(ColAgentAlt) {
		agentCol = ColAgentAlt
	}
	agents, ok := t.Column(agentCol)
	if !ok {
		return out
	}

	type acc struct {
		n              int
		durs, waitVals []string
	}
	groups := make(map[string]*acc)
	for i, a := range agents {
		if strings.TrimSpace(a) == "" {
			continue
		}
		g := groups[a]
		if g == nil {
			g = &acc{}
			groups[a] = g
		}
		g.n++
		if durations != nil {
			g.durs = append(g.durs, durations[i])
		}
		if waits != nil {
			g.waitVals = append(g.waitVals, waits[i])
		}
	}

	names := make([]string, 0, len(groups))
	for a := range groups {
		names = append(names, a)
	}
	slices.Sort(names)
	for _, a := range names {
		g := groups[a]
		out.ByAgent = append(out.ByAgent, AgentCalls{
			Agent:       a,
			Total:       g.n,
			AvgDuration: meanOf(g.durs, ParseSeconds),
			AvgWait:     meanOf(g.waitVals, ParseSeconds),
		})
	}
	return out
}
