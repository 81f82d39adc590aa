package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ccdash/internal/csvsource"
	"ccdash/internal/report"
	"ccdash/internal/stats"
	"ccdash/internal/visuals"

	"github.com/rs/zerolog/log"
)

const msgNoCallSource = "No hay un directorio de llamadas configurado."

func msgNoRows(file string) string { return "Aún no hay datos en " + file }

// Llamadas is the call-center tab fed by reporte.csv and detalle_llamadas.csv.
func (a *Assembler) Llamadas(_ context.Context, s ViewState) report.View {
	v := newView(Llamadas, s)
	if a.calls == nil {
		v.Notify("", report.LevelError, msgNoCallSource)
		return v
	}
	if survey, ok := a.loadCalls(&v, csvsource.ReportFile, s); ok {
		a.satisfaction(&v, survey)
	}
	if detail, ok := a.loadCalls(&v, csvsource.DetailFile, s); ok {
		a.callDetail(&v, detail, csvsource.DetailFile)
	}
	return v
}

// LlamadasCCC is the CCC variant: a breaks report plus its own call detail.
func (a *Assembler) LlamadasCCC(_ context.Context, s ViewState) report.View {
	v := newView(LlamadasCCC, s)
	if a.calls == nil {
		v.Notify("", report.LevelError, msgNoCallSource)
		return v
	}
	if breaks, ok := a.loadCalls(&v, csvsource.CCCReportFile, s); ok {
		a.breaks(&v, breaks)
	}
	if detail, ok := a.loadCalls(&v, csvsource.CCCDetailFile, s); ok {
		a.callDetail(&v, detail, csvsource.CCCDetailFile)
	}
	return v
}

func (a *Assembler) loadCalls(v *report.View, file string, s ViewState) (csvsource.Table, bool) {
	t, err := a.calls.Load(file)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("Failed to read call export")
		v.Notify(file, report.LevelError, fmt.Sprintf("No se pudo leer %s.", file))
		return csvsource.Table{}, false
	}
	return t.BetweenDates(csvsource.ColDate, s.Range.From, s.Range.To), true
}

func (a *Assembler) satisfaction(v *report.View, t csvsource.Table) {
	if t.Empty() {
		v.Notify("satisfaccion", report.LevelInfo, msgNoRows(csvsource.ReportFile))
		return
	}
	survey, err := csvsource.Satisfaction(t)
	if err != nil {
		msg := "No se pudo leer la columna 'Satisfaccion'."
		if errors.Is(err, csvsource.ErrMissingColumn) {
			msg = "El CSV no tiene la columna 'Satisfaccion'."
		}
		v.Notify("satisfaccion", report.LevelWarning, msg)
		return
	}

	labels := make([]string, len(survey.Counts))
	values := make([]float64, len(survey.Counts))
	for i, c := range survey.Counts {
		labels[i] = c.Label
		values[i] = float64(c.Total)
	}
	v.Charts = append(v.Charts, visuals.Bar("satisfaccion", "Encuestas de satisfaccion", "Total", labels, values, csvsource.SurveyColors))

	if !survey.HasAgents {
		return
	}
	cols := []report.Column{{Key: "agente", Label: labelAgent, Kind: report.KindText}}
	for _, l := range csvsource.SurveyLevels {
		cols = append(cols, report.Column{Key: l, Label: l, Kind: report.KindInteger})
	}
	tbl := report.NewTable("satisfaccion_agentes", "Encuestas por asesor", cols...)
	tbl.Caption = "Las filas resaltadas en rojo corresponden al asesor con mas respuestas de Muy Insatisfecho; " +
		"en verde, el asesor con mas respuestas de Muy Satisfecho."
	flags := make([]stats.Flag, 0, len(survey.ByAgent))
	for _, row := range survey.ByAgent {
		cells := []report.Cell{report.Text(row.Agent)}
		for _, n := range row.Levels {
			cells = append(cells, report.Integer(float64(n)))
		}
		tbl.Add(cells...)
		flags = append(flags, row.Flag)
	}
	highlightExtremes(tbl, flags)
	v.AddTable(tbl)
}

func (a *Assembler) callDetail(v *report.View, t csvsource.Table, file string) {
	if t.Empty() {
		v.Notify(file, report.LevelInfo, msgNoRows(file))
		return
	}
	sum := csvsource.Calls(t)
	total := float64(sum.Total)
	v.KPIs = append(v.KPIs,
		report.KPI{ID: "total_llamadas", Label: "Total llamadas", Value: groupThousands(sum.Total), Raw: total},
		report.KPI{ID: "duracion_promedio", Label: "Duración promedio", Value: stats.FormatSeconds(sum.AvgDuration), Raw: sum.AvgDuration},
		report.KPI{ID: "espera_promedio", Label: "Espera promedio", Value: stats.FormatSeconds(sum.AvgWait), Raw: sum.AvgWait},
	)

	if len(sum.ByStatus) > 0 {
		labels := make([]string, len(sum.ByStatus))
		values := make([]float64, len(sum.ByStatus))
		for i, c := range sum.ByStatus {
			labels[i] = c.Label
			values[i] = float64(c.Total)
		}
		v.Charts = append(v.Charts, visuals.Bar("estado_llamadas", "Llamadas por estado", "Total", labels, values, csvsource.StatusColors))
	}

	if len(sum.ByAgent) == 0 {
		return
	}
	tbl := report.NewTable("llamadas_agentes", "Llamadas por asesor",
		report.Column{Key: "agente", Label: labelAgent, Kind: report.KindText},
		report.Column{Key: "total", Label: "Total de Llamadas", Kind: report.KindInteger},
		report.Column{Key: "duracion", Label: "Duracion Promedio", Kind: report.KindDuration},
		report.Column{Key: "espera", Label: "Tiempo de espera Promedio", Kind: report.KindDuration},
	)
	for _, ag := range sum.ByAgent {
		tbl.Add(report.Text(ag.Agent), report.Integer(float64(ag.Total)), report.Duration(ag.AvgDuration), report.Duration(ag.AvgWait))
	}
	v.AddTable(tbl)
}

func (a *Assembler) breaks(v *report.View, t csvsource.Table) {
	set, clocks := csvsource.Breaks(t)
	if set.Empty() {
		v.Notify(csvsource.CCCReportFile, report.LevelInfo, msgNoRows(csvsource.CCCReportFile))
		return
	}
	isClock := make(map[string]bool, len(clocks))
	for _, c := range clocks {
		isClock[c] = true
	}
	renames := make([]report.Rename, 0, len(t.Header))
	for i, h := range t.Header {
		if t.Index(h) != i {
			continue
		}
		kind := report.KindText
		if isClock[h] {
			kind = report.KindDuration
		}
		renames = append(renames, report.Rename{Key: h, Label: h, Kind: kind})
	}
	v.AddTable(report.FromRowSet("pausas_agentes", "Pausas por agente", set, renames))

	labelCol := csvsource.ColAgentNumber
	if set.HasColumn(csvsource.ColAgent) {
		labelCol = csvsource.ColAgent
	}
	labels := make([]string, 0, set.Len())
	values := make([]float64, 0, set.Len())
	for _, r := range set.Rows {
		total := 0.0
		for _, c := range clocks {
			total += r.Value(c)
		}
		labels = append(labels, r.Text(labelCol))
		values = append(values, stats.Round2(total/60))
	}
	v.Charts = append(v.Charts, visuals.Bar("pausas_totales", "Pausas totales por agente", "Minutos", labels, values, nil))
}

// groupThousands formats an integer with comma separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
