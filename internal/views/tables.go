package views

import (
	"slices"

	"ccdash/internal/report"
	"ccdash/internal/semaphore"
	"ccdash/internal/stats"
)

// API column names.
const (
	colTeam        = "team_name"
	colTeamUUID    = "team_uuid"
	colAgent       = "agent_email"
	colAgentAlt    = "Agente"
	colDay         = "dia"
	colOpened      = "casos_abiertos"
	colResolved    = "casos_resueltos"
	colAbandoned   = "casos_abandonados_24h"
	colPending     = "casos_pendientes"
	colAnswered    = "casos_respondidos"
	colInSLA       = "casos_en_sla"
	colIncoming    = "conversaciones_entrantes"
	colSameDay     = "conversaciones_atendidas_same_day"
	colPctAttended = "pct_atendidas"
	colClosed      = "conversaciones_cerradas"
	colAvgFRT      = "avg_frt_seconds"
	colMedianFRT   = "median_frt_seconds"
	colP90FRT      = "p90_frt_seconds"
	colAvgDur      = "avg_duration_seconds"
	colMedianDur   = "median_duration_seconds"
	colP90Dur      = "p90_duration_seconds"
)

// Derived column names produced by reconciliation.
const (
	pctResolved  = "pct_resolved"
	pctAbandoned = "pct_abandoned"
	pctSLA       = "pct_sla"
	roleInSLA    = "in_sla"
)

const (
	labelTeam  = "Empresa"
	labelAgent = "Agente"
)

var frtRenames = []report.Rename{
	{Key: colDay, Label: "Dia", Kind: report.KindText},
	{Key: colTeam, Label: labelTeam, Kind: report.KindText},
	{Key: colAgent, Label: labelAgent, Kind: report.KindText},
	{Key: colOpened, Label: "Casos Abiertos", Kind: report.KindInteger},
	{Key: colAnswered, Label: "Casos Respondidos", Kind: report.KindInteger},
	{Key: colAvgFRT, Label: "Tiempo de primera respuesta Promedio (s)", Kind: report.KindDuration},
	{Key: colMedianFRT, Label: "Tiempo de primera respuesta Mediana (s)", Kind: report.KindDuration},
	{Key: colP90FRT, Label: "Tiempo de primera respuesta P90 (s)", Kind: report.KindDuration},
}

var durationRenames = []report.Rename{
	{Key: colDay, Label: "Dia", Kind: report.KindText},
	{Key: colTeam, Label: labelTeam, Kind: report.KindText},
	{Key: colAgent, Label: labelAgent, Kind: report.KindText},
	{Key: colClosed, Label: "Conversaciones Cerradas", Kind: report.KindInteger},
	{Key: colAvgDur, Label: "Duracion Promedio (s)", Kind: report.KindDuration},
	{Key: colMedianDur, Label: "Duracion Mediana (s)", Kind: report.KindDuration},
	{Key: colP90Dur, Label: "Duracion P90 (s)", Kind: report.KindDuration},
}

// classifyColumn runs every numeric cell of the column through the policy.
func classifyColumn(t *report.Table, key string, policies semaphore.PolicySet, policy string) {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		return
	}
	t.Columns[idx].Kind = report.KindPercent
	for i := range t.Rows {
		c := t.Rows[i].Cells[idx]
		if c.Value == nil {
			continue
		}
		t.Rows[i].Cells[idx] = report.Classified(*c.Value, policies, policy)
	}
}

// highlightExtremes colors whole rows: best good, worst bad, by the column value.
func highlightExtremes(t *report.Table, flags []stats.Flag) {
	for i := range t.Rows {
		if i >= len(flags) {
			return
		}
		t.Rows[i].Flag = flags[i]
		switch flags[i] {
		case stats.FlagBest:
			t.Rows[i].Highlight = semaphore.Good
		case stats.FlagWorst:
			t.Rows[i].Highlight = semaphore.Bad
		}
	}
}

// caseTable renders reconciled case rows as
// key | opened | resolved | %resolved [| abandoned | %abandoned].
func caseTable(id, title, keyLabel, openedLabel string, rec stats.ReconciledTable, withAbandoned bool, policies semaphore.PolicySet, resolution, abandonment string) *report.Table {
	cols := []report.Column{
		{Key: rec.Dimension, Label: keyLabel, Kind: report.KindText},
		{Key: stats.RoleOpened, Label: openedLabel, Kind: report.KindInteger},
		{Key: stats.RoleResolved, Label: "Casos Resueltos", Kind: report.KindInteger},
	}
	if withAbandoned {
		cols = append(cols,
			report.Column{Key: pctResolved, Label: "Porcentaje de Resueltos", Kind: report.KindPercent},
			report.Column{Key: stats.RoleAbandoned, Label: "Casos Abandonados", Kind: report.KindInteger},
			report.Column{Key: pctAbandoned, Label: "Porcentaje de Abandonados", Kind: report.KindPercent},
		)
	} else {
		cols = append(cols, report.Column{Key: pctResolved, Label: "% Resueltos", Kind: report.KindPercent})
	}

	t := report.NewTable(id, title, cols...)
	for _, r := range rec.Rows {
		cells := []report.Cell{
			report.Text(r.Key),
			report.Integer(r.Value(stats.RoleOpened)),
			report.Integer(r.Value(stats.RoleResolved)),
			report.Classified(r.Value(pctResolved), policies, resolution),
		}
		if withAbandoned {
			cells = append(cells,
				report.Integer(r.Value(stats.RoleAbandoned)),
				report.Classified(r.Value(pctAbandoned), policies, abandonment),
			)
		}
		t.Add(cells...)
	}
	return t
}

// reconcileCases merges resolved and abandoned rows on the dimension.
func reconcileCases(dimension string, resolved, abandoned stats.RowSet, exclude []string) stats.ReconciledTable {
	return stats.Reconcile(stats.ReconcileSpec{
		Dimension: dimension,
		Baseline:  stats.RoleOpened,
		Derived: []stats.Derived{
			{Name: pctResolved, Numerator: stats.RoleResolved},
			{Name: pctAbandoned, Numerator: stats.RoleAbandoned},
		},
		Exclude: exclude,
	},
		stats.Source{Set: resolved, Roles: map[string]string{stats.RoleOpened: colOpened, stats.RoleResolved: colResolved}},
		stats.Source{Set: abandoned, Roles: map[string]string{stats.RoleOpened: colOpened, stats.RoleAbandoned: colAbandoned}},
	)
}

// reconcileSLA sums answered and in-SLA cases per key; rows without a key are dropped.
func reconcileSLA(dimension string, set stats.RowSet) stats.ReconciledTable {
	return stats.Reconcile(stats.ReconcileSpec{
		Dimension: dimension,
		Baseline:  stats.RoleOpened,
		Derived:   []stats.Derived{{Name: pctSLA, Numerator: roleInSLA}},
		Exclude:   []string{""},
	}, stats.Source{Set: set, Roles: map[string]string{stats.RoleOpened: colAnswered, roleInSLA: colInSLA}})
}

// withRanks prepends an "N" column with each row's rank and copies the flags.
// Excluded rows get an empty position.
func withRanks(t *report.Table, ranked []stats.RankedRow) {
	t.Columns = append([]report.Column{{Key: "n", Label: "N", Kind: report.KindInteger}}, t.Columns...)
	for i := range t.Rows {
		pos := report.Text("")
		if i < len(ranked) && !ranked[i].Excluded {
			pos = report.Integer(float64(ranked[i].Rank))
		}
		t.Rows[i].Cells = append([]report.Cell{pos}, t.Rows[i].Cells...)
		if i < len(ranked) {
			t.Rows[i].Flag = ranked[i].Flag
		}
	}
}

func sortStrings(s []string) []string {
	slices.Sort(s)
	return s
}
