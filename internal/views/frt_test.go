package views

import (
	"context"
	"testing"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"
	"ccdash/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frtAPI() *fakeAPI {
	return newFakeAPI().
		on(metricsapi.FRT, `[
			{"dia":"2024-03-07","team_name":"T1","team_uuid":"u1","agent_email":"a@x","avg_frt_seconds":60,"median_frt_seconds":30,"p90_frt_seconds":120},
			{"dia":"2024-03-07","team_name":"T2","team_uuid":"u2","agent_email":"b@x","avg_frt_seconds":180,"median_frt_seconds":90},
			{"dia":"2024-03-07","team_name":"T1","agent_email":"excluido@example.com","avg_frt_seconds":9999}
		]`).
		on(metricsapi.FRTRanking, `[
			{"agent_email":"b@x","team_uuid":"u2","casos_respondidos":5,"avg_frt_seconds":50},
			{"agent_email":"excluido@example.com","casos_respondidos":1,"avg_frt_seconds":1},
			{"agent_email":"a@x","team_uuid":"u1","casos_respondidos":3,"avg_frt_seconds":40}
		]`).
		on(metricsapi.FRTSLA, `[
			{"team_name":"T1","agent_email":"a@x","casos_respondidos":10,"casos_en_sla":6},
			{"team_name":"T1","agent_email":"b@x","casos_respondidos":10,"casos_en_sla":8},
			{"team_name":"T2","agent_email":"b@x","casos_respondidos":10,"casos_en_sla":10}
		]`).
		on(metricsapi.FRTResumenAgentes, `[
			{"agent_email":"a@x","casos_abiertos":4,"casos_respondidos":3,"avg_frt_seconds":7300},
			{"agent_email":"excluido@example.com","casos_abiertos":1}
		]`)
}

func TestFRT_KPIsWithoutTeam(t *testing.T) {
	v := newTestAssembler(frtAPI(), nil).FRT(context.Background(), customState())

	k, ok := v.KPI("frt_promedio")
	require.True(t, ok)
	assert.Equal(t, 120.0, k.Raw, "excluded agent does not count")
	assert.Equal(t, "2.00 min", k.Value)
	k, _ = v.KPI("frt_mediana")
	assert.Equal(t, "60 seg", k.Value)
	k, _ = v.KPI("frt_p90")
	assert.Equal(t, 120.0, k.Raw, "mean over the rows that carry the measure")

	assert.True(t, hasNotice(v, report.LevelInfo, msgPickTeam))
	_, ok = v.Table("detalle_empresa")
	assert.False(t, ok)
	require.Len(t, v.Filters, 1)
	assert.Equal(t, []string{"Todos", "T1", "T2"}, v.Filters[0].Options)
}

func TestFRT_DetailForTeam(t *testing.T) {
	s := customState()
	s.Team = "T1"
	v := newTestAssembler(frtAPI(), nil).FRT(context.Background(), s)

	k, _ := v.KPI("frt_promedio")
	assert.Equal(t, "60 seg", k.Value)

	detail := mustTable(t, v, "detalle_empresa")
	require.Len(t, detail.Rows, 1)
	assert.NotContains(t, columnLabels(detail), "team_uuid")
	assert.Equal(t, "60 seg", detail.Rows[0].Cells[detail.ColumnIndex(colAvgFRT)].Text)
}

func TestFRT_Ranking(t *testing.T) {
	api := frtAPI()
	v := newTestAssembler(api, nil).FRT(context.Background(), customState())

	rank := mustTable(t, v, "ranking_agentes")
	assert.Equal(t, []string{"N", "Agente", "Casos Respondidos", "Tiempo de primera respuesta Promedio (s)"}, columnLabels(rank))
	require.Len(t, rank.Rows, 3)
	assert.Equal(t, []string{"1", "a@x", "3", "40 seg"}, cellTexts(rank.Rows[0]))
	assert.Equal(t, stats.FlagBest, rank.Rows[0].Flag)
	assert.Equal(t, []string{"2", "b@x", "5", "50 seg"}, cellTexts(rank.Rows[1]))
	assert.Equal(t, stats.FlagWorst, rank.Rows[1].Flag)
	assert.Equal(t, []string{"", "excluido@example.com", "1", "1 seg"}, cellTexts(rank.Rows[2]),
		"excluded agents are listed without a position and never win the fastest flag")
	assert.Equal(t, stats.FlagNone, rank.Rows[2].Flag)

	req, ok := api.request(metricsapi.FRTRanking.Name)
	require.True(t, ok)
	assert.Equal(t, "asc", req.Extra.Get("order"))
	assert.Equal(t, "10", req.Extra.Get("limit"))
}

func TestFRT_SLAByAgentAndTeam(t *testing.T) {
	v := newTestAssembler(frtAPI(), nil).FRT(context.Background(), customState())

	agents := mustTable(t, v, "sla_agentes")
	require.Len(t, agents.Rows, 2)
	assert.Equal(t, []string{"a@x", "10", "6", "60.00"}, cellTexts(agents.Rows[0]))
	assert.Equal(t, semaphore.Bad, agents.Rows[0].Cells[3].Severity)
	assert.Equal(t, []string{"b@x", "20", "18", "90.00"}, cellTexts(agents.Rows[1]))
	assert.Equal(t, semaphore.Plain, agents.Rows[1].Cells[3].Severity, "the top SLA band is left unstyled")

	teams := mustTable(t, v, "sla_empresas")
	require.Len(t, teams.Rows, 2)
	assert.Equal(t, []string{"T1", "20", "14", "70.00"}, cellTexts(teams.Rows[0]))
	assert.Equal(t, semaphore.Warn, teams.Rows[0].Cells[3].Severity)
}

func TestFRT_Summaries(t *testing.T) {
	v := newTestAssembler(frtAPI(), nil).FRT(context.Background(), customState())

	agents := mustTable(t, v, "resumen_agentes")
	require.Len(t, agents.Rows, 1)
	assert.Equal(t, "2.03 hs", agents.Rows[0].Cells[agents.ColumnIndex(colAvgFRT)].Text)

	assert.True(t, hasNotice(v, report.LevelInfo, msgNoTeams))
}

func TestFRT_EmptyDetail(t *testing.T) {
	api := frtAPI().on(metricsapi.FRT, `[]`)
	v := newTestAssembler(api, nil).FRT(context.Background(), customState())
	assert.True(t, hasNotice(v, report.LevelInfo, msgNoData))
	assert.Empty(t, v.KPIs)
	_, ok := v.Table("ranking_agentes")
	assert.True(t, ok, "other sections render regardless")
}
