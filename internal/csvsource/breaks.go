package csvsource

import (
	"strings"

	"ccdash/internal/stats"
)

// ColAgentNumber keys the CCC breaks report.
const ColAgentNumber = "No. de Agente"

// Breaks converts the CCC breaks report into rows. The trailing "Total" line
// is dropped. Columns whose every non-empty cell is a clock value become
// measures in seconds; everything else stays textual.
func Breaks(t Table) (stats.RowSet, []string) {
	t = t.Filter(func(rec []string) bool {
		return !strings.EqualFold(strings.TrimSpace(t.Value(rec, ColAgentNumber)), "total")
	})

	var clocks []string
	clockIdx := make(map[int]bool)
	for i, h := range t.Header {
		if t.Index(h) != i {
			continue
		}
		if isClockColumn(t, i) {
			clocks = append(clocks, h)
			clockIdx[i] = true
		}
	}

	set := stats.RowSet{Source: "reporte_ccc.csv"}
	for _, rec := range t.Records {
		row := stats.NewRow(nil, nil)
		for i, h := range t.Header {
			if t.Index(h) != i {
				continue
			}
			v := field(rec, i)
			if clockIdx[i] {
				secs, _ := ParseClock(v)
				row.Measures[h] = secs
				continue
			}
			row.Attrs[h] = v
		}
		set.Rows = append(set.Rows, row)
	}
	return set, clocks
}

func isClockColumn(t Table, idx int) bool {
	seen := false
	for _, rec := range t.Records {
		v := strings.TrimSpace(field(rec, idx))
		if v == "" {
			continue
		}
		if !strings.Contains(v, ":") {
			return false
		}
		if _, ok := ParseClock(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}
