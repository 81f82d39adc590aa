package stats

import (
	"slices"
	"strconv"
	"strings"
)

// MetricRow is one record returned by the metrics API.
// Attributes carry dimensions (team, agent, day); Measures carry the numeric columns.
// A measure that is absent from Measures is unknown, not zero.
type MetricRow struct {
	Attrs    map[string]string  `json:"attrs,omitempty"`
	Measures map[string]float64 `json:"measures,omitempty"`
}

// NewRow builds a row from plain maps. Either argument may be nil.
func NewRow(attrs map[string]string, measures map[string]float64) MetricRow {
	if attrs == nil {
		attrs = map[string]string{}
	}
	if measures == nil {
		measures = map[string]float64{}
	}
	return MetricRow{Attrs: attrs, Measures: measures}
}

// Attr returns the attribute value and whether the row carries it.
func (r MetricRow) Attr(name string) (string, bool) {
	v, ok := r.Attrs[name]
	return v, ok
}

// Measure returns the measure value and whether the row carries it.
func (r MetricRow) Measure(name string) (float64, bool) {
	v, ok := r.Measures[name]
	return v, ok
}

// Value returns the measure or 0 when absent.
func (r MetricRow) Value(name string) float64 {
	return r.Measures[name]
}

// HasColumn reports whether the row carries the column as attribute or measure.
func (r MetricRow) HasColumn(name string) bool {
	if _, ok := r.Attrs[name]; ok {
		return true
	}
	_, ok := r.Measures[name]
	return ok
}

// Text renders a column for display, preferring the attribute form.
func (r MetricRow) Text(name string) string {
	if v, ok := r.Attrs[name]; ok {
		return v
	}
	if v, ok := r.Measures[name]; ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (r MetricRow) clone() MetricRow {
	out := NewRow(nil, nil)
	for k, v := range r.Attrs {
		out.Attrs[k] = v
	}
	for k, v := range r.Measures {
		out.Measures[k] = v
	}
	return out
}

// RowSet is an ordered group of rows from a single API response.
type RowSet struct {
	Source string      `json:"source"`
	Rows   []MetricRow `json:"rows"`
}

// Len returns the number of rows.
func (s RowSet) Len() int { return len(s.Rows) }

// Empty reports whether the set has no rows.
func (s RowSet) Empty() bool { return len(s.Rows) == 0 }

// HasColumn reports whether any row carries the column.
func (s RowSet) HasColumn(name string) bool {
	for _, r := range s.Rows {
		if r.HasColumn(name) {
			return true
		}
	}
	return false
}

// Columns lists every column name seen in the set, attributes first, in first-seen order.
func (s RowSet) Columns() []string {
	seen := make(map[string]bool)
	var attrs, measures []string
	for _, r := range s.Rows {
		for _, k := range sortedKeys(r.Attrs) {
			if !seen[k] {
				seen[k] = true
				attrs = append(attrs, k)
			}
		}
		for _, k := range sortedKeys(r.Measures) {
			if !seen[k] {
				seen[k] = true
				measures = append(measures, k)
			}
		}
	}
	return append(attrs, measures...)
}

// Filter returns the rows for which keep returns true.
func (s RowSet) Filter(keep func(MetricRow) bool) RowSet {
	out := RowSet{Source: s.Source}
	for _, r := range s.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Where keeps rows whose attribute equals value.
func (s RowSet) Where(attr, value string) RowSet {
	return s.Filter(func(r MetricRow) bool {
		v, _ := r.Attr(attr)
		return v == value
	})
}

// Without drops rows whose attribute matches any of the given values.
// Matching is case-insensitive and ignores surrounding spaces.
func (s RowSet) Without(attr string, values []string) RowSet {
	if len(values) == 0 {
		return s
	}
	return s.Filter(func(r MetricRow) bool {
		v, _ := r.Attr(attr)
		return !MatchesAny(v, values)
	})
}

// Distinct returns the sorted non-empty values of an attribute.
func (s RowSet) Distinct(attr string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.Rows {
		v, ok := r.Attr(attr)
		if !ok || strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Sum adds a measure across the set; rows without it contribute nothing.
func (s RowSet) Sum(measure string) float64 {
	total := 0.0
	for _, r := range s.Rows {
		total += r.Value(measure)
	}
	return total
}

// Mean averages a measure over the rows that carry it. Returns 0 when none do.
func (s RowSet) Mean(measure string) float64 {
	var values []float64
	for _, r := range s.Rows {
		if v, ok := r.Measure(measure); ok {
			values = append(values, v)
		}
	}
	return Mean(values)
}

// DropAllZero removes rows whose listed measures are all zero or absent.
func (s RowSet) DropAllZero(measures []string) RowSet {
	if len(measures) == 0 {
		return s
	}
	return s.Filter(func(r MetricRow) bool {
		for _, m := range measures {
			if r.Value(m) != 0 {
				return true
			}
		}
		return false
	})
}

// NumericColumns lists the measure names present in the set, sorted.
func (s RowSet) NumericColumns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.Rows {
		for k := range r.Measures {
			if _, isAttr := r.Attrs[k]; isAttr {
				continue
			}
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	slices.Sort(out)
	return out
}

// MatchesAny reports whether v equals one of values, ignoring case and surrounding spaces.
func MatchesAny(v string, values []string) bool {
	v = strings.TrimSpace(v)
	for _, x := range values {
		if strings.EqualFold(v, strings.TrimSpace(x)) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
