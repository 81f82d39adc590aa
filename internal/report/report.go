// Package report is the presentation contract shared by every surface:
// tables with 1-based display indexes, classified cells, KPI cards and notices.
package report

import (
	"strconv"

	"ccdash/internal/semaphore"
	"ccdash/internal/stats"
	"ccdash/internal/visuals"
)

// Kind tells renderers how a column's values are formatted.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindPercent  Kind = "percent"
	KindDuration Kind = "duration"
)

// Column is a table header.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

// Cell is one rendered value. Value is set for numeric kinds.
type Cell struct {
	Text     string             `json:"text"`
	Value    *float64           `json:"value,omitempty"`
	Severity semaphore.Severity `json:"severity,omitempty"`
	Label    string             `json:"label,omitempty"`
}

// Row is a table line. Highlight colors the whole row (extremes, survey outliers).
type Row struct {
	Index     int                `json:"index"`
	Cells     []Cell             `json:"cells"`
	Highlight semaphore.Severity `json:"highlight,omitempty"`
	Flag      stats.Flag         `json:"flag,omitempty"`
}

// Table is an ordered set of rows under a header.
type Table struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Caption string   `json:"caption,omitempty"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable starts an empty table.
func NewTable(id, title string, columns ...Column) *Table {
	return &Table{ID: id, Title: title, Columns: columns}
}

// Add appends a row with the given cells.
func (t *Table) Add(cells ...Cell) *Row {
	t.Rows = append(t.Rows, Row{Index: len(t.Rows) + 1, Cells: cells})
	return &t.Rows[len(t.Rows)-1]
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// ColumnIndex returns the position of the column key or -1.
func (t Table) ColumnIndex(key string) int {
	for i, c := range t.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Prepare returns a copy with every numeric cell rounded to two decimals
// and the display index renumbered 1..N. The receiver is not modified.
func (t Table) Prepare() Table {
	out := t
	out.Columns = append([]Column(nil), t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]Cell, len(r.Cells))
		for j, c := range r.Cells {
			if c.Value != nil {
				v := stats.Round2(*c.Value)
				c.Value = &v
			}
			cells[j] = c
		}
		r.Cells = cells
		r.Index = i + 1
		out.Rows[i] = r
	}
	return out
}

// Text is a string cell.
func Text(s string) Cell { return Cell{Text: s} }

// Number is a numeric cell shown with at most two decimals.
func Number(v float64) Cell {
	r := stats.Round2(v)
	return Cell{Text: strconv.FormatFloat(r, 'f', -1, 64), Value: &v}
}

// Integer is a count cell.
func Integer(v float64) Cell {
	return Cell{Text: strconv.FormatInt(int64(v), 10), Value: &v}
}

// Percent is a percentage cell shown with two decimals, optionally classified.
func Percent(v float64, sem *semaphore.Semaphore) Cell {
	c := Cell{Text: strconv.FormatFloat(v, 'f', 2, 64), Value: &v}
	if sem != nil {
		c.Severity = sem.Severity
		c.Label = sem.Label
	}
	return c
}

// Duration is a seconds cell shown in the adaptive unit.
func Duration(secs float64) Cell {
	return Cell{Text: stats.FormatSeconds(secs), Value: &secs}
}

// Classified is shorthand for a percent cell run through a policy.
func Classified(v float64, policies semaphore.PolicySet, policy string) Cell {
	sem := policies.Classify(policy, v)
	return Percent(v, &sem)
}

// KPI is a headline number.
type KPI struct {
	ID        string               `json:"id"`
	Label     string               `json:"label"`
	Value     string               `json:"value"`
	Raw       float64              `json:"raw"`
	Help      string               `json:"help,omitempty"`
	Semaphore *semaphore.Semaphore `json:"semaphore,omitempty"`
}

// Level is a notice severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message shown in place of, or next to, a section.
type Notice struct {
	Section string `json:"section,omitempty"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// FilterOption lists the selectable values of a filter ("Todos" is implied).
type FilterOption struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

// View is a fully assembled dashboard tab.
type View struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Range   string          `json:"range,omitempty"`
	State   any             `json:"state,omitempty"`
	KPIs    []KPI           `json:"kpis,omitempty"`
	Charts  []visuals.Chart `json:"charts,omitempty"`
	Tables  []Table         `json:"tables,omitempty"`
	Notices []Notice        `json:"notices,omitempty"`
	Filters []FilterOption  `json:"filters,omitempty"`
}

// Notify appends a notice.
func (v *View) Notify(section string, level Level, msg string) {
	v.Notices = append(v.Notices, Notice{Section: section, Level: level, Message: msg})
}

// AddTable appends a prepared copy of the table.
func (v *View) AddTable(t *Table) {
	v.Tables = append(v.Tables, t.Prepare())
}

// Degraded reports whether any error notice was raised.
func (v View) Degraded() bool {
	for _, n := range v.Notices {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}

// Table returns the table with the id, if present.
func (v View) Table(id string) (Table, bool) {
	for _, t := range v.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// KPI returns the KPI with the id, if present.
func (v View) KPI(id string) (KPI, bool) {
	for _, k := range v.KPIs {
		if k.ID == id {
			return k, true
		}
	}
	return KPI{}, false
}
