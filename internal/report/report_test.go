package report

import (
	"bytes"
	"strings"
	"testing"

	"ccdash/internal/semaphore"
	"ccdash/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_RoundsAndRenumbers(t *testing.T) {
	tbl := NewTable("t", "Tabla",
		Column{Key: "team", Label: "Empresa", Kind: KindText},
		Column{Key: "pct", Label: "%", Kind: KindPercent},
	)
	tbl.Add(Text("B"), Percent(33.33333, nil))
	tbl.Add(Text("A"), Number(2.0/3.0))
	tbl.Rows = tbl.Rows[1:]

	out := tbl.Prepare()
	require.Len(t, out.Rows, 1)
	assert.Equal(t, 1, out.Rows[0].Index)
	assert.Equal(t, 0.67, *out.Rows[0].Cells[1].Value)
	assert.Equal(t, "0.67", out.Rows[0].Cells[1].Text)

	// the source table keeps its unrounded values
	assert.Equal(t, 2, tbl.Rows[0].Index)
	assert.InDelta(t, 0.666666, *tbl.Rows[0].Cells[1].Value, 1e-5)
}

func TestCells(t *testing.T) {
	assert.Equal(t, "12", Integer(12.9).Text)
	assert.Equal(t, "80.00", Percent(80, nil).Text)
	assert.Equal(t, "2.50 min", Duration(150).Text)

	policies := semaphore.DefaultPolicies()
	c := Classified(92, policies, semaphore.AbandonosResolution)
	assert.Equal(t, semaphore.Good, c.Severity)
	assert.Equal(t, ">= 90%", c.Label)
}

func TestFromRowSet_RenamesAndDrops(t *testing.T) {
	set := stats.RowSet{Rows: []stats.MetricRow{
		stats.NewRow(map[string]string{"team_name": "Acme", "team_uuid": "u1"},
			map[string]float64{"avg_frt_seconds": 90, "conversaciones": 4}),
	}}

	tbl := FromRowSet("frt", "FRT", set, []Rename{
		{Key: "team_name", Label: "Empresa", Kind: KindText},
		{Key: "avg_frt_seconds", Label: "FRT Promedio", Kind: KindDuration},
		{Key: "missing", Label: "No existe", Kind: KindNumber},
	}, "team_uuid")

	labels := make([]string, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"Empresa", "FRT Promedio", "conversaciones"}, labels)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Acme", tbl.Rows[0].Cells[0].Text)
	assert.Equal(t, "90 seg", tbl.Rows[0].Cells[1].Text)
	assert.Equal(t, "4", tbl.Rows[0].Cells[2].Text)
}

func TestView_Lookups(t *testing.T) {
	v := View{Name: "inicio", Title: "Inicio"}
	tbl := NewTable("detalle", "Detalle", Column{Key: "x", Label: "X"})
	tbl.Add(Text("a"))
	v.AddTable(tbl)
	v.KPIs = append(v.KPIs, KPI{ID: "entrantes", Label: "Entrantes", Value: "10", Raw: 10})

	_, ok := v.Table("detalle")
	assert.True(t, ok)
	_, ok = v.Table("otra")
	assert.False(t, ok)
	k, ok := v.KPI("entrantes")
	require.True(t, ok)
	assert.Equal(t, 10.0, k.Raw)

	assert.False(t, v.Degraded())
	v.Notify("detalle", LevelWarning, "aviso")
	assert.False(t, v.Degraded())
	v.Notify("detalle", LevelError, "fallo")
	assert.True(t, v.Degraded())
}

func sampleView() View {
	sem := semaphore.Semaphore{Label: ">= 90%", Severity: semaphore.Good}
	v := View{Name: "abandonos", Title: "Abandonos", Range: "2024-03-01 a 2024-03-08"}
	v.KPIs = []KPI{{ID: "resueltos", Label: "Casos Resueltos", Value: "91.00%", Raw: 91, Semaphore: &sem}}
	tbl := NewTable("equipos", "Por empresa",
		Column{Key: "team", Label: "Empresa"},
		Column{Key: "pct", Label: "Porcentaje de Resueltos", Kind: KindPercent},
	)
	tbl.Add(Text("A|B"), Percent(91, &sem)).Highlight = semaphore.Good
	v.AddTable(tbl)
	v.Notify("", LevelInfo, "Selecciona una empresa")
	return v
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleView(), RenderOptions{})
	assert.Contains(t, out, "## Abandonos")
	assert.Contains(t, out, "_Rango: 2024-03-01 a 2024-03-08_")
	assert.Contains(t, out, "- **Casos Resueltos**: 91.00% (🟢 >= 90%)")
	assert.Contains(t, out, "| # | Empresa | Porcentaje de Resueltos |")
	assert.Contains(t, out, `| 1 | A\|B | 🟢 91.00 | 🟢`)
	assert.Contains(t, out, "> ℹ️ Selecciona una empresa")
	assert.NotContains(t, out, "```mermaid")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleView()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Abandonos\n"))
	assert.Contains(t, out, "Rango: 2024-03-01 a 2024-03-08")
	assert.Contains(t, out, "[info] Selecciona una empresa")
	assert.Contains(t, out, "Porcentaje de Resueltos")
	assert.Contains(t, out, "91.00 🟢")
}
