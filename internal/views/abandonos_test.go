package views

import (
	"context"
	"testing"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abandonosAPI() *fakeAPI {
	return newFakeAPI().
		on(metricsapi.CasosResueltos, `{"data":[
			{"team_name":"T1","agent_email":"a@x","casos_abiertos":10,"casos_resueltos":8},
			{"team_name":"T2","agent_email":"b@x","casos_abiertos":5,"casos_resueltos":0},
			{"team_name":"CHATBOT","agent_email":"bot","casos_abiertos":20,"casos_resueltos":20},
			{"team_name":"T1","agent_email":"excluido@example.com","casos_abiertos":100,"casos_resueltos":100}
		]}`).
		on(metricsapi.CasosAbandonados, `[
			{"team_name":"T1","agent_email":"a@x","casos_abiertos":10,"casos_abandonados_24h":2},
			{"team_name":"T2","agent_email":"b@x","casos_abiertos":5,"casos_abandonados_24h":1}
		]`)
}

func TestAbandonos_TotalsAndTables(t *testing.T) {
	v := newTestAssembler(abandonosAPI(), nil).Abandonos(context.Background(), customState())

	k, ok := v.KPI("pct_resueltos")
	require.True(t, ok)
	assert.Equal(t, "80.00%", k.Value, "totals count the excluded unit")
	assert.Equal(t, semaphore.Good, k.Semaphore.Severity)

	k, _ = v.KPI("pct_abandonados")
	assert.Equal(t, "8.57%", k.Value)
	assert.Equal(t, semaphore.Bad, k.Semaphore.Severity)

	k, _ = v.KPI("casos_abiertos")
	assert.Equal(t, "35", k.Value)

	teams := mustTable(t, v, "resumen_empresa")
	assert.Equal(t, []string{"Empresa", "Casos Abiertos", "Casos Resueltos", "Porcentaje de Resueltos",
		"Casos Abandonados", "Porcentaje de Abandonados"}, columnLabels(teams))
	require.Len(t, teams.Rows, 2)
	assert.Equal(t, []string{"T1", "10", "8", "80.00", "2", "20.00"}, cellTexts(teams.Rows[0]))
	assert.Equal(t, semaphore.Warn, teams.Rows[0].Cells[3].Severity)
	assert.Equal(t, semaphore.Warn, teams.Rows[0].Cells[5].Severity)
	assert.Equal(t, []string{"T2", "5", "0", "0.00", "1", "20.00"}, cellTexts(teams.Rows[1]))
	assert.Equal(t, semaphore.Bad, teams.Rows[1].Cells[3].Severity)

	agents := mustTable(t, v, "resumen_agente")
	require.Len(t, agents.Rows, 3)
	for _, r := range agents.Rows {
		assert.NotEqual(t, "excluido@example.com", r.Cells[0].Text)
	}

	require.Len(t, v.Filters, 1)
	assert.Equal(t, []string{"Todos", "T1", "T2"}, v.Filters[0].Options)
	assert.Equal(t, "Todos", v.Filters[0].Selected)
	assert.Len(t, v.Charts, 2)
}

func TestAbandonos_TeamFilter(t *testing.T) {
	s := customState()
	s.Team = "T2"
	v := newTestAssembler(abandonosAPI(), nil).Abandonos(context.Background(), s)

	k, _ := v.KPI("pct_resueltos")
	assert.Equal(t, "0.00%", k.Value)
	k, _ = v.KPI("pct_abandonados")
	assert.Equal(t, "20.00%", k.Value)

	teams := mustTable(t, v, "resumen_empresa")
	require.Len(t, teams.Rows, 1)
	assert.Equal(t, "T2", teams.Rows[0].Cells[0].Text)
	assert.Equal(t, "T2", v.Filters[0].Selected)
}

func TestAbandonos_NoData(t *testing.T) {
	api := newFakeAPI().
		on(metricsapi.CasosResueltos, `[{"agent_email":"excluido@example.com","casos_abiertos":1}]`).
		on(metricsapi.CasosAbandonados, `[]`)
	v := newTestAssembler(api, nil).Abandonos(context.Background(), customState())

	assert.True(t, hasNotice(v, report.LevelInfo, msgNoData))
	assert.Empty(t, v.Tables)
	assert.Empty(t, v.KPIs)
}

func TestAbandonos_OneSourceDown(t *testing.T) {
	api := abandonosAPI().fail(metricsapi.CasosAbandonados, &metricsapi.StatusError{StatusCode: 500})
	v := newTestAssembler(api, nil).Abandonos(context.Background(), customState())

	assert.True(t, hasNotice(v, report.LevelError, metricsapi.MsgRequestError))
	teams := mustTable(t, v, "resumen_empresa")
	assert.Equal(t, []string{"T1", "10", "8", "80.00", "0", "0.00"}, cellTexts(teams.Rows[0]))
}

func TestAbandonos_UsesShortcutWindow(t *testing.T) {
	api := abandonosAPI()
	s := customState()
	s.Mode = ModeLast48h
	newTestAssembler(api, nil).Abandonos(context.Background(), s)

	req, ok := api.request(metricsapi.CasosAbandonados.Name)
	require.True(t, ok)
	assert.Equal(t, metricsapi.Window48h, req.Window)
	assert.Equal(t, s.Range, req.Range)
}
