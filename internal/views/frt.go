package views

import (
	"context"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"
	"ccdash/internal/stats"
)

// FRT is the first-response-time tab.
func (a *Assembler) FRT(ctx context.Context, s ViewState) report.View {
	v := newView(FRT, s)

	ranking := rangeRequest(metricsapi.FRTRanking, s).
		With("order", string(stats.Ascending)).
		WithInt("limit", a.opts.FRTLimit)
	b := a.fetchAll(ctx, map[string]metricsapi.Request{
		sectionDetail:  windowRequest(metricsapi.FRT, s),
		sectionRanking: ranking,
		sectionSLA:     a.slaRequest(s),
		sectionAgents:  rangeRequest(metricsapi.FRTResumenAgentes, s),
		sectionTeams:   rangeRequest(metricsapi.FRTResumenEquipos, s),
	})

	a.frtDetail(&v, b, s)
	a.frtRanking(&v, b)
	a.frtSLA(&v, b)
	a.summaryTable(&v, b, sectionAgents, "resumen_agentes", "Resumen por agentes", frtRenames, msgNoAgents, "", nil)
	a.summaryTable(&v, b, sectionTeams, "resumen_empresas", "Resumen por empresas", frtRenames, msgNoTeams, "", nil)
	return v
}

// measureKPIs averages each measure over the rows; absent measures read 0.
func measureKPIs(set stats.RowSet, ids, labels, measures []string) []report.KPI {
	out := make([]report.KPI, len(measures))
	for i, m := range measures {
		val := 0.0
		if set.HasColumn(m) {
			val = set.Mean(m)
		}
		out[i] = report.KPI{ID: ids[i], Label: labels[i], Value: stats.FormatSeconds(val), Raw: val}
	}
	return out
}

func (a *Assembler) frtDetail(v *report.View, b batch, s ViewState) {
	detail, ok := b.get(sectionDetail, v)
	if !ok {
		return
	}
	if detail.Empty() {
		v.Notify(sectionDetail, report.LevelInfo, msgNoData)
		return
	}
	if teams := detail.Distinct(colTeam); len(teams) > 0 {
		v.Filters = append(v.Filters, report.FilterOption{
			Name:     "team",
			Label:    "Filtrar por empresa",
			Options:  append([]string{allTeams}, teams...),
			Selected: selectedLabel(s.Team),
		})
	}
	filtered := detail
	if s.Team != "" && detail.HasColumn(colTeam) {
		filtered = detail.Where(colTeam, s.Team)
	}
	filtered = a.withoutAgents(filtered)

	v.KPIs = append(v.KPIs, measureKPIs(filtered,
		[]string{"frt_promedio", "frt_mediana", "frt_p90"},
		[]string{"Tiempo de primera respuesta (Promedio)", "Tiempo de primera respuesta (Mediana)", "Tiempo de primera respuesta (Percentil 90)"},
		[]string{colAvgFRT, colMedianFRT, colP90FRT},
	)...)

	if s.Team == "" {
		v.Notify(sectionDetail, report.LevelInfo, msgPickTeam)
		return
	}
	v.AddTable(report.FromRowSet("detalle_empresa", "Detalle por empresa", filtered, frtRenames, colTeamUUID))
}

func (a *Assembler) frtRanking(v *report.View, b batch) {
	set, ok := b.get(sectionRanking, v)
	if !ok {
		return
	}
	if set.Empty() {
		v.Notify(sectionRanking, report.LevelInfo, msgNoRanking)
		return
	}

	// Excluded agents are listed after the ranking without a position.
	ranked := stats.RankBy(set, colAgent, colAvgFRT, stats.Ascending, stats.RankOptions{
		Exclude:   a.opts.ExcludedAgents,
		Companion: colAnswered,
		Limit:     a.opts.FRTLimit,
	})
	ordered := stats.RowSet{Source: set.Source}
	for _, r := range ranked.Rows {
		ordered.Rows = append(ordered.Rows, r.Row)
	}

	t := report.FromRowSet("ranking_agentes", "Ranking de agentes", ordered, frtRenames, colTeamUUID)
	withRanks(t, ranked.Rows)
	v.AddTable(t)
}

func (a *Assembler) frtSLA(v *report.View, b batch) {
	set, ok := b.get(sectionSLA, v)
	if !ok {
		return
	}
	set = a.withoutAgents(set)

	if !set.Empty() && set.HasColumn(colAgent) {
		v.AddTable(a.slaTable("sla_agentes", "SLA por agente", labelAgent, reconcileSLA(colAgent, set)))
	} else {
		v.Notify("sla_agentes", report.LevelInfo, msgNoAgentSLA)
	}

	teamKey := stats.PickDimension([]string{colTeam, colTeamUUID}, set)
	if !set.Empty() && set.HasColumn(teamKey) {
		v.AddTable(a.slaTable("sla_empresas", "SLA por empresa", labelTeam, reconcileSLA(teamKey, set)))
	} else {
		v.Notify("sla_empresas", report.LevelInfo, msgNoTeamSLA)
	}
}

func (a *Assembler) slaTable(id, title, keyLabel string, rec stats.ReconciledTable) *report.Table {
	t := report.NewTable(id, title,
		report.Column{Key: rec.Dimension, Label: keyLabel, Kind: report.KindText},
		report.Column{Key: colAnswered, Label: "Casos Respondidos", Kind: report.KindInteger},
		report.Column{Key: colInSLA, Label: "Casos en SLA", Kind: report.KindInteger},
		report.Column{Key: pctSLA, Label: "% SLA", Kind: report.KindPercent},
	)
	t.Caption = "Colores: amarillo 70%-<90%, rojo <70%."
	for _, r := range rec.Rows {
		t.Add(
			report.Text(r.Key),
			report.Integer(r.Value(stats.RoleOpened)),
			report.Integer(r.Value(roleInSLA)),
			report.Classified(stats.Round2(r.Value(pctSLA)), a.policies, semaphore.FRTSLA),
		)
	}
	return t
}

// summaryTable renders an agent or unit summary section. When team is set the
// rows are narrowed to it; drop lists measures whose all-zero rows are removed.
func (a *Assembler) summaryTable(v *report.View, b batch, section, id, title string, renames []report.Rename, empty, team string, drop []string) {
	set, ok := b.get(section, v)
	if !ok {
		return
	}
	set = a.withoutAgents(set)
	if team != "" && set.HasColumn(colTeam) {
		set = set.Where(colTeam, team)
	}
	if drop != nil {
		set = set.DropAllZero(drop)
	}
	if set.Empty() {
		v.Notify(id, report.LevelInfo, empty)
		return
	}
	v.AddTable(report.FromRowSet(id, title, set, renames, colTeamUUID))
}
