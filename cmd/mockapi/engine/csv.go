package engine

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Export file names, matching what the phone system drops in the calls directory.
const (
	reportFile    = "reporte.csv"
	detailFile    = "detalle_llamadas.csv"
	cccReportFile = "reporte_ccc.csv"
	cccDetailFile = "detalle_llamadas_ccc.csv"
)

var surveyAnswers = []string{"1. Muy insatisfecho", "2. Insatisfecho", "3. Neutral", "4. Satisfecho", "5. Muy satisfecho"}

var callStates = []string{"Resuelto", "Resuelto", "Resuelto", "Abandonado", "En curso"}

// breakColumns are the CCC report's clock columns.
var breakColumns = []string{"Baño", "Almuerzo", "Capacitación", "Pausa"}

// CallsDays is how many days back the call exports reach.
const CallsDays = 7

// WriteCSV writes the four call exports for the dataset's agents into dir.
func WriteCSV(dir string, ds *Dataset, seed int64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seed))
	today := truncateDay(ds.Now)

	var survey, detail, cccDetail [][]string
	for d := CallsDays - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		for _, ag := range ds.Agents {
			if ag.Team == "CHATBOT" {
				continue
			}
			for n := 2 + rng.Intn(6); n > 0; n-- {
				at := day.Add(time.Duration(8*3600+rng.Intn(10*3600)) * time.Second)
				stamp := at.Format("2006-01-02 15:04:05")
				state := callStates[rng.Intn(len(callStates))]
				duration := 30 + rng.Intn(600)
				wait := rng.Intn(90)
				if state == "Abandonado" {
					duration = 0
				}
				detail = append(detail, []string{stamp, ag.Name, strconv.Itoa(duration), strconv.Itoa(wait), state})
				cccDetail = append(cccDetail, []string{stamp, ag.Name, clock(duration), clock(wait), state})
				if state == "Resuelto" && rng.Intn(3) > 0 {
					survey = append(survey, []string{stamp, ag.Name, surveyAnswers[skewedAnswer(rng)]})
				}
			}
		}
	}

	header := []string{"Fecha", "Agente", "Duración", "Tiempo Espera", "Estado"}
	files := map[string][][]string{
		reportFile:    append([][]string{{"Fecha", "Agente", "Satisfaccion"}}, survey...),
		detailFile:    append([][]string{header}, detail...),
		cccDetailFile: append([][]string{header}, cccDetail...),
		cccReportFile: breaksReport(rng, ds),
	}
	for name, rows := range files {
		if err := writeFile(filepath.Join(dir, name), rows); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// skewedAnswer leans toward satisfied answers.
func skewedAnswer(rng *rand.Rand) int {
	weights := []int{1, 1, 2, 4, 6}
	n := rng.Intn(14)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

func breaksReport(rng *rand.Rand, ds *Dataset) [][]string {
	rows := [][]string{append([]string{"No. de Agente", "Agente"}, breakColumns...)}
	totals := make([]int, len(breakColumns))
	num := 100
	for _, ag := range ds.Agents {
		if ag.Team == "CHATBOT" {
			continue
		}
		num++
		row := []string{strconv.Itoa(num), ag.Name}
		for i := range breakColumns {
			secs := rng.Intn(3600)
			totals[i] += secs
			row = append(row, clock(secs))
		}
		rows = append(rows, row)
	}
	total := []string{"Total", ""}
	for _, secs := range totals {
		total = append(total, clock(secs))
	}
	return append(rows, total)
}

func clock(secs int) string {
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
