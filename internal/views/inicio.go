package views

import (
	"context"
	"strconv"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"
	"ccdash/internal/stats"
	"ccdash/internal/visuals"
)

const (
	msgNoData        = "Sin datos para el rango seleccionado."
	msgNoSummary     = "Resumen no disponible para el rango seleccionado."
	msgNoTeamCases   = "No hay datos por empresa para este endpoint."
	msgNoAgentCases  = "No hay datos por agente para este endpoint."
	msgNoTeamSLA     = "Sin datos de SLA por empresa."
	msgNoAgentSLA    = "Sin datos de SLA por agente."
	msgNoTeams       = "Sin datos por empresas."
	msgNoAgents      = "Sin datos por agentes."
	msgNoRanking     = "Sin datos de ranking disponibles."
	msgPickTeam      = "Selecciona una empresa para ver la tabla de detalle."
	msgPickTeamAvg   = "Selecciona una empresa para ver la tabla de promedio general."
	sectionSummary   = "resumen"
	sectionPending   = "pendientes"
	sectionDetail    = "detalle"
	sectionResolved  = "resueltos"
	sectionAbandoned = "abandonados"
	sectionSLA       = "sla"
	sectionTeams     = "resumen_equipos"
	sectionAgents    = "resumen_agentes"
	sectionRanking   = "ranking"
)

// Inicio is the attended-cases tab.
func (a *Assembler) Inicio(ctx context.Context, s ViewState) report.View {
	v := newView(Inicio, s)

	b := a.fetchAll(ctx, map[string]metricsapi.Request{
		sectionDetail:    windowRequest(metricsapi.CasosAtendidos, s),
		sectionResolved:  windowRequest(metricsapi.CasosResueltos, s),
		sectionAbandoned: windowRequest(metricsapi.CasosAbandonados, s),
		sectionSummary:   rangeRequest(metricsapi.CasosAtendidosResumen, s),
		sectionPending:   rangeRequest(metricsapi.CasosPendientes, s),
		sectionSLA:       a.slaRequest(s),
		sectionTeams:     rangeRequest(metricsapi.FRTResumenEquipos, s),
	})

	a.inicioSummary(&v, b)

	detail, ok := b.get(sectionDetail, &v)
	if !ok {
		return v
	}
	if detail.Empty() {
		v.Notify(sectionDetail, report.LevelInfo, msgNoData)
		return v
	}

	a.inicioResolution(&v, b)
	a.inicioSLA(&v, b)
	a.inicioTeamFRT(&v, b)
	a.inicioDetail(&v, detail)
	return v
}

func (a *Assembler) inicioSummary(v *report.View, b batch) {
	summary, ok := b.get(sectionSummary, v)
	if !ok {
		return
	}
	if summary.Empty() {
		v.Notify(sectionSummary, report.LevelInfo, msgNoSummary)
		return
	}
	row := summary.Rows[0]
	incoming := row.Value(colIncoming)
	attended := row.Value(colSameDay)
	pct, hasPct := row.Measure(colPctAttended)
	if !hasPct {
		pct = stats.SafePercent(attended, incoming)
	}

	pending := 0.0
	if set, ok := b.get(sectionPending, v); ok {
		pending = set.Sum(colPending)
	}

	sem := a.policies.Classify(semaphore.InicioSameDay, pct)
	v.KPIs = append(v.KPIs,
		report.KPI{ID: "entrantes", Label: "Conversaciones entrantes", Value: intText(incoming), Raw: incoming},
		report.KPI{ID: "pendientes", Label: "Casos Pendientes", Value: intText(pending), Raw: pending},
		report.KPI{ID: "atendidas_mismo_dia", Label: "Atendidas mismo dia", Value: intText(attended), Raw: attended},
		report.KPI{
			ID:        "pct_atendidas",
			Label:     "Porcentaje de Conversaciones Atendidas en el mismo día",
			Value:     pctText(pct),
			Raw:       pct,
			Help:      "Porcentaje de conversaciones entrantes que fueron atendidas en el mismo día en el que ingresaron.",
			Semaphore: &sem,
		},
	)
	v.Charts = append(v.Charts, visuals.Donut("atendidas_mismo_dia", "Porcentaje de Conversaciones Atendidas en el mismo día", pct, sem, "Atendidas"))
}

func (a *Assembler) inicioResolution(v *report.View, b batch) {
	resolved, okRes := b.get(sectionResolved, v)
	abandoned, okAb := b.get(sectionAbandoned, v)
	if !okRes && !okAb {
		return
	}
	resolved = a.withoutAgents(a.withoutTeams(resolved))
	abandoned = a.withoutAgents(a.withoutTeams(abandoned))

	teamKey := stats.PickDimension([]string{colTeam, colTeamUUID}, resolved, abandoned)
	if resolved.HasColumn(teamKey) || abandoned.HasColumn(teamKey) {
		rec := reconcileCases(teamKey, resolved, abandoned, a.opts.ExcludedTeams)
		t := caseTable("resolucion_empresas", "Resumen por unidad: Resoluciones", labelTeam, "Casos Recibidos",
			rec, false, a.policies, semaphore.InicioResolution, "")
		t.Caption = "% Resueltos: Verde mayor o igual a 85%, Amarillo entre 75% y 85%, Rojo menor al 75%."
		v.AddTable(t)

		var labels []string
		var values []float64
		for _, r := range rec.Rows {
			if n := float64(int64(r.Value(stats.RoleOpened))); n > 0 {
				labels = append(labels, r.Key)
				values = append(values, n)
			}
		}
		if len(values) > 0 {
			v.Charts = append(v.Charts, visuals.Pie("distribucion_unidades", "Distribucion de casos por Unidad", labels, values))
		}
	} else {
		v.Notify("resolucion_empresas", report.LevelInfo, msgNoTeamCases)
	}

	if resolved.HasColumn(colAgent) || abandoned.HasColumn(colAgent) {
		rec := reconcileCases(colAgent, resolved, abandoned, nil)
		t := caseTable("resolucion_agentes", "Resumen por agente: Resoluciones", labelAgent, "Casos Recibidos",
			rec, false, a.policies, semaphore.InicioResolution, "")
		t.Caption = "% Resueltos: Verde mayor o igual a 85%, Amarillo entre 75% y 85%, Rojo menor al 75%."
		v.AddTable(t)
	} else {
		v.Notify("resolucion_agentes", report.LevelInfo, msgNoAgentCases)
	}
}

func (a *Assembler) inicioSLA(v *report.View, b batch) {
	set, ok := b.get(sectionSLA, v)
	if !ok {
		return
	}
	set = a.withoutTeams(set)
	teamKey := stats.PickDimension([]string{colTeam, colTeamUUID}, set)
	if set.Empty() || !set.HasColumn(teamKey) {
		v.Notify(sectionSLA, report.LevelInfo, msgNoTeamSLA)
		return
	}
	rec := reconcileSLA(teamKey, set)

	// casos_abiertos per unit comes from the FRT unit summary
	received := map[string]float64{}
	joinReceived := false
	if teams, ok := b[sectionTeams]; ok && teams.err == nil {
		eq := a.withoutTeams(teams.set)
		if eq.HasColumn(colTeam) && eq.HasColumn(colOpened) {
			joinReceived = true
			for _, r := range eq.Rows {
				key := r.Text(colTeam)
				if _, seen := received[key]; !seen {
					received[key] = r.Value(colOpened)
				}
			}
		}
	}

	cols := []report.Column{{Key: teamKey, Label: labelTeam, Kind: report.KindText}}
	if joinReceived {
		cols = append(cols, report.Column{Key: colOpened, Label: "Casos Recibidos", Kind: report.KindInteger})
	}
	cols = append(cols,
		report.Column{Key: colAnswered, Label: "Casos Respondidos", Kind: report.KindInteger},
		report.Column{Key: colInSLA, Label: "Casos en SLA", Kind: report.KindInteger},
		report.Column{Key: pctSLA, Label: "% SLA", Kind: report.KindPercent},
	)
	t := report.NewTable("sla_unidades", "SLA por unidad", cols...)
	t.Caption = "Verde valor mas alto en %SLA, Rojo valor mas bajo en %SLA."

	values := make([]float64, len(rec.Rows))
	for i, r := range rec.Rows {
		pct := stats.Round2(r.Value(pctSLA))
		values[i] = pct
		cells := []report.Cell{report.Text(r.Key)}
		if joinReceived {
			cells = append(cells, report.Integer(received[r.Key]))
		}
		cells = append(cells,
			report.Integer(r.Value(stats.RoleOpened)),
			report.Integer(r.Value(roleInSLA)),
			report.Percent(pct, nil),
		)
		t.Add(cells...)
	}
	highlightExtremes(t, stats.FlagExtremes(values, nil, true).Flags)
	v.AddTable(t)
}

func (a *Assembler) inicioTeamFRT(v *report.View, b batch) {
	set, ok := b.get(sectionTeams, v)
	if !ok {
		return
	}
	set = a.withoutTeams(set)
	if set.Empty() {
		v.Notify(sectionTeams, report.LevelInfo, msgNoTeams)
		return
	}
	renames := []report.Rename{
		{Key: colTeam, Label: labelTeam, Kind: report.KindText},
		{Key: colOpened, Label: "Casos Abiertos", Kind: report.KindInteger},
		{Key: colAnswered, Label: "Casos Respondidos", Kind: report.KindInteger},
		{Key: colAvgFRT, Label: "Tiempo de primera respuesta Promedio (s)", Kind: report.KindDuration},
		{Key: colMedianFRT, Label: "Tiempo de primera respuesta Mediana (s)", Kind: report.KindDuration},
		{Key: colP90FRT, Label: "Tiempo de primera respuesta P90 (s)", Kind: report.KindDuration},
	}
	v.AddTable(report.FromRowSet("frt_empresas", "Resumen por empresas: Tiempo de primera respuesta", set, renames, colTeamUUID))
}

func (a *Assembler) inicioDetail(v *report.View, detail stats.RowSet) {
	detail = a.withoutAgents(a.withoutTeams(detail))
	t := report.FromRowSet("detalle_dia", "Detalle por dia", detail, []report.Rename{
		{Key: colDay, Label: "Dia", Kind: report.KindText},
		{Key: colAgent, Label: labelAgent, Kind: report.KindText},
		{Key: colIncoming, Label: "Conversaciones Entrantes", Kind: report.KindInteger},
		{Key: colSameDay, Label: "Conversaciones Atendidas (Mismo Dia)", Kind: report.KindInteger},
		{Key: colPctAttended, Label: "% Atendidas", Kind: report.KindPercent},
	}, colTeamUUID)
	classifyColumn(t, colPctAttended, a.policies, semaphore.InicioAttended)
	t.Caption = "% Atendidas: Verde mayor o igual a 90%, Amarillo 80% entre 90%, Rojo menos del 80%."
	v.AddTable(t)

	if detail.HasColumn("fecha") && detail.HasColumn("total") {
		labels := make([]string, 0, detail.Len())
		values := make([]float64, 0, detail.Len())
		for _, r := range detail.Rows {
			labels = append(labels, r.Text("fecha"))
			values = append(values, r.Value("total"))
		}
		v.Charts = append(v.Charts, visuals.Line("casos_atendidos", "Casos atendidos", "Casos", labels, values))
	}
}

func intText(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
