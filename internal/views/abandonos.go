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

// Abandonos is the resolved versus abandoned cases tab.
func (a *Assembler) Abandonos(ctx context.Context, s ViewState) report.View {
	v := newView(Abandonos, s)

	b := a.fetchAll(ctx, map[string]metricsapi.Request{
		sectionResolved:  windowRequest(metricsapi.CasosResueltos, s),
		sectionAbandoned: windowRequest(metricsapi.CasosAbandonados, s),
	})
	resolved, okRes := b.get(sectionResolved, &v)
	abandoned, okAb := b.get(sectionAbandoned, &v)
	if !okRes && !okAb {
		return v
	}
	resolved = a.withoutAgents(resolved)
	abandoned = a.withoutAgents(abandoned)
	if resolved.Empty() && abandoned.Empty() {
		v.Notify("", report.LevelInfo, msgNoData)
		return v
	}

	teamKey := stats.PickDimension([]string{colTeam, colTeamUUID}, resolved, abandoned)
	if options := a.teamOptions(teamKey, resolved, abandoned); len(options) > 0 {
		v.Filters = append(v.Filters, report.FilterOption{
			Name:     "team",
			Label:    "Filtrar por empresa",
			Options:  append([]string{allTeams}, options...),
			Selected: selectedLabel(s.Team),
		})
	}
	if s.Team != "" {
		resolved = resolved.Where(teamKey, s.Team)
		abandoned = abandoned.Where(teamKey, s.Team)
	}

	// Totals include every unit, excluded ones too; only the display drops them.
	teams := reconcileCases(teamKey, resolved, abandoned, nil)
	agents := reconcileCases(colAgent, resolved, abandoned, nil)

	opened := teams.Total(stats.RoleOpened)
	resolvedTotal := teams.Total(stats.RoleResolved)
	abandonedTotal := teams.Total(stats.RoleAbandoned)
	pctRes := stats.SafePercent(resolvedTotal, opened)
	pctAb := stats.SafePercent(abandonedTotal, opened)

	semRes := a.policies.Classify(semaphore.AbandonosDonut, pctRes)
	semAb := a.policies.Classify(semaphore.AbandonosDonut, pctAb)
	v.KPIs = append(v.KPIs,
		report.KPI{ID: "casos_abiertos", Label: "Casos Abiertos", Value: intText(opened), Raw: opened},
		report.KPI{ID: "pct_resueltos", Label: "Porcentaje de Casos Resueltos", Value: pctText(pctRes), Raw: pctRes, Semaphore: &semRes,
			Help: "Porcentaje sobre el total de casos registrados en el rango de tiempo seleccionado que se hayan resuelto finalmente, sean a tiempo o no lo sean."},
		report.KPI{ID: "pct_abandonados", Label: "Porcentaje de Casos Abandonados", Value: pctText(pctAb), Raw: pctAb, Semaphore: &semAb,
			Help: "Porcentaje sobre el total de casos registrados en el rango de tiempo en el que el cliente no obtuvo una respuesta por 24 horas o más."},
	)
	v.Charts = append(v.Charts,
		visuals.Donut("pct_resueltos", "Porcentaje de Casos Resueltos", pctRes, semRes, "Porcentaje"),
		visuals.Donut("pct_abandonados", "Porcentaje de Casos Abandonados", pctAb, semAb, "Porcentaje"),
	)

	caption := "% Resueltos: Verde mas del 90%, Amarillo entre 80% - 90%, Rojo menos del 80%. | " +
		"% Abandonados: Verde menos del 15%, Amarillo entre 15% - 25%, Rojo más del 25%."
	t := caseTable("resumen_empresa", "Resumen por empresa", labelTeam, "Casos Abiertos",
		teams.Without(a.opts.ExcludedTeams), true, a.policies, semaphore.AbandonosResolution, semaphore.AbandonosAbandonment)
	t.Caption = caption
	v.AddTable(t)

	t = caseTable("resumen_agente", "Resumen por agente", labelAgent, "Casos Abiertos",
		agents, true, a.policies, semaphore.AbandonosResolution, semaphore.AbandonosAbandonment)
	t.Caption = caption
	v.AddTable(t)
	return v
}

func selectedLabel(team string) string {
	if team == "" {
		return allTeams
	}
	return team
}

func pctText(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
