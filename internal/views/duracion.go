package views

import (
	"context"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
)

// Duracion is the conversation-duration tab. It has no shortcut endpoints.
func (a *Assembler) Duracion(ctx context.Context, s ViewState) report.View {
	v := newView(Duracion, s)

	b := a.fetchAll(ctx, map[string]metricsapi.Request{
		sectionDetail: rangeRequest(metricsapi.Duracion, s),
		sectionAgents: rangeRequest(metricsapi.DuracionResumenAgentes, s),
		sectionTeams:  rangeRequest(metricsapi.DuracionResumenEquipos, s),
	})

	a.duracionDetail(&v, b, s)

	agents := b[sectionAgents].set
	a.summaryTable(&v, b, sectionAgents, "resumen_agentes", "Resumen por agentes", durationRenames, msgNoAgents, "", agents.NumericColumns())
	teams := b[sectionTeams].set
	a.summaryTable(&v, b, sectionTeams, "resumen_empresas", "Resumen por empresas", durationRenames, msgNoTeams, s.Team, teams.NumericColumns())
	return v
}

func (a *Assembler) duracionDetail(v *report.View, b batch, s ViewState) {
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
	if s.Team != "" && detail.HasColumn(colTeam) {
		detail = detail.Where(colTeam, s.Team)
	}
	detail = a.withoutAgents(detail)

	v.KPIs = append(v.KPIs, measureKPIs(detail,
		[]string{"duracion_mediana", "duracion_promedio", "duracion_p90"},
		[]string{"Duracion (Mediana)", "Duracion (Promedio)", "Duracion (Percentil 90)"},
		[]string{colMedianDur, colAvgDur, colP90Dur},
	)...)

	detail = detail.DropAllZero(detail.NumericColumns())
	if s.Team == "" {
		v.Notify(sectionDetail, report.LevelInfo, msgPickTeamAvg)
		return
	}
	v.AddTable(report.FromRowSet("detalle_empresa", "Detalle por empresa", detail, durationRenames, colTeamUUID))
}
