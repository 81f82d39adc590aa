package report

import (
	"ccdash/internal/stats"
)

// Rename maps a source column to its header. Columns of the set not named
// here are appended with their raw key unless listed in drop.
type Rename struct {
	Key   string
	Label string
	Kind  Kind
}

// FromRowSet builds a table from raw rows, keeping the order of renames
// and skipping names the set does not carry.
func FromRowSet(id, title string, set stats.RowSet, renames []Rename, drop ...string) *Table {
	known := make(map[string]bool, len(renames)+len(drop))
	for _, d := range drop {
		known[d] = true
	}

	var cols []Column
	for _, r := range renames {
		known[r.Key] = true
		if !set.HasColumn(r.Key) {
			continue
		}
		cols = append(cols, Column{Key: r.Key, Label: r.Label, Kind: r.Kind})
	}
	for _, key := range set.Columns() {
		if known[key] {
			continue
		}
		kind := KindText
		if isNumericColumn(set, key) {
			kind = KindNumber
		}
		cols = append(cols, Column{Key: key, Label: key, Kind: kind})
	}

	t := NewTable(id, title, cols...)
	for _, row := range set.Rows {
		cells := make([]Cell, len(cols))
		for i, c := range cols {
			cells[i] = cellFor(row, c)
		}
		t.Add(cells...)
	}
	return t
}

func cellFor(row stats.MetricRow, c Column) Cell {
	if c.Kind == KindText {
		return Text(row.Text(c.Key))
	}
	v, ok := row.Measure(c.Key)
	if !ok {
		if s, has := row.Attr(c.Key); has && s != "" {
			return Text(s)
		}
	}
	switch c.Kind {
	case KindInteger:
		return Integer(v)
	case KindPercent:
		return Percent(v, nil)
	case KindDuration:
		return Duration(v)
	default:
		return Number(v)
	}
}

func isNumericColumn(set stats.RowSet, key string) bool {
	for _, n := range set.NumericColumns() {
		if n == key {
			return true
		}
	}
	return false
}
