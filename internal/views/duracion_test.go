package views

import (
	"context"
	"testing"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duracionAPI() *fakeAPI {
	return newFakeAPI().
		on(metricsapi.Duracion, `[
			{"dia":"2024-03-06","team_name":"T1","agent_email":"a@x","conversaciones_cerradas":4,"avg_duration_seconds":100,"median_duration_seconds":80,"p90_duration_seconds":200},
			{"dia":"2024-03-07","team_name":"T1","agent_email":"b@x","conversaciones_cerradas":0,"avg_duration_seconds":0,"median_duration_seconds":0,"p90_duration_seconds":0},
			{"dia":"2024-03-07","team_name":"T2","agent_email":"c@x","conversaciones_cerradas":2,"avg_duration_seconds":300,"median_duration_seconds":200,"p90_duration_seconds":400}
		]`).
		on(metricsapi.DuracionResumenAgentes, `[
			{"agent_email":"a@x","conversaciones_cerradas":4,"avg_duration_seconds":100},
			{"agent_email":"z@x","conversaciones_cerradas":0,"avg_duration_seconds":0}
		]`).
		on(metricsapi.DuracionResumenEquipos, `[
			{"team_name":"T1","team_uuid":"u1","conversaciones_cerradas":4,"avg_duration_seconds":50},
			{"team_name":"T2","team_uuid":"u2","conversaciones_cerradas":2,"avg_duration_seconds":300},
			{"team_name":"T3","team_uuid":"u3","conversaciones_cerradas":0,"avg_duration_seconds":0}
		]`)
}

func TestDuracion_TeamSelected(t *testing.T) {
	s := customState()
	s.Team = "T1"
	v := newTestAssembler(duracionAPI(), nil).Duracion(context.Background(), s)

	k, ok := v.KPI("duracion_mediana")
	require.True(t, ok)
	assert.Equal(t, "40 seg", k.Value, "zero rows still count toward the KPIs")
	k, _ = v.KPI("duracion_promedio")
	assert.Equal(t, "50 seg", k.Value)
	k, _ = v.KPI("duracion_p90")
	assert.Equal(t, "100 seg", k.Value)

	detail := mustTable(t, v, "detalle_empresa")
	require.Len(t, detail.Rows, 1, "all-zero row dropped")
	assert.Contains(t, columnLabels(detail), "Duracion Promedio (s)")
	assert.Contains(t, columnLabels(detail), "Conversaciones Cerradas")

	teams := mustTable(t, v, "resumen_empresas")
	require.Len(t, teams.Rows, 1, "unit summary follows the selected unit")
	assert.Equal(t, "T1", teams.Rows[0].Cells[0].Text)
	assert.NotContains(t, columnLabels(teams), "team_uuid")
}

func TestDuracion_NoTeam(t *testing.T) {
	api := duracionAPI()
	s := customState()
	s.Mode = ModeLast24h
	v := newTestAssembler(api, nil).Duracion(context.Background(), s)

	assert.True(t, hasNotice(v, report.LevelInfo, msgPickTeamAvg))
	agents := mustTable(t, v, "resumen_agentes")
	require.Len(t, agents.Rows, 1)
	assert.Equal(t, "a@x", agents.Rows[0].Cells[0].Text)

	teams := mustTable(t, v, "resumen_empresas")
	assert.Len(t, teams.Rows, 2)

	req, ok := api.request(metricsapi.Duracion.Name)
	require.True(t, ok)
	assert.Equal(t, metricsapi.WindowNone, req.Window)
}
