package stats

import (
	"slices"
)

// Measure roles shared by the case views.
const (
	RoleOpened    = "opened"
	RoleResolved  = "resolved"
	RoleAbandoned = "abandoned"
)

// Source is one RowSet plus the mapping from semantic role to the column it is read from.
type Source struct {
	Set   RowSet
	Roles map[string]string
}

// Derived is a percentage column computed as Numerator / baseline * 100.
type Derived struct {
	Name      string
	Numerator string
}

// ReconcileSpec describes how a group of sources is merged into one table.
type ReconcileSpec struct {
	Dimension string
	// Baseline is the role reconciled as the maximum across sources (e.g. opened cases).
	// Every other role is summed across the sources that map it.
	Baseline string
	Derived  []Derived
	Exclude  []string
}

// ReconciledRow holds the merged measures for one dimension key.
type ReconciledRow struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values"`
}

// Value returns a role or derived value; absent names read as 0.
func (r ReconciledRow) Value(name string) float64 {
	return r.Values[name]
}

// ReconciledTable is the full outer union of the sources, ordered by key.
type ReconciledTable struct {
	Dimension string          `json:"dimension"`
	Rows      []ReconciledRow `json:"rows"`
}

// Empty reports whether no key survived reconciliation.
func (t ReconciledTable) Empty() bool { return len(t.Rows) == 0 }

// Total sums a role or derived column across all rows.
func (t ReconciledTable) Total(name string) float64 {
	total := 0.0
	for _, r := range t.Rows {
		total += r.Value(name)
	}
	return total
}

// Without returns a copy omitting the given keys.
func (t ReconciledTable) Without(keys []string) ReconciledTable {
	out := ReconciledTable{Dimension: t.Dimension}
	for _, r := range t.Rows {
		if !MatchesAny(r.Key, keys) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// AsRowSet exposes the table as plain rows so it can be ranked or rendered.
func (t ReconciledTable) AsRowSet() RowSet {
	set := RowSet{Source: "reconciled:" + t.Dimension}
	for _, r := range t.Rows {
		row := NewRow(map[string]string{t.Dimension: r.Key}, nil)
		for k, v := range r.Values {
			row.Measures[k] = v
		}
		set.Rows = append(set.Rows, row)
	}
	return set
}

// Reconcile groups every source by the dimension, sums the role-mapped columns,
// and merges the groups with a full outer join. A key missing from a source
// contributes 0 for that source's roles. Rows without the dimension attribute
// are grouped under the empty key.
func Reconcile(spec ReconcileSpec, sources ...Source) ReconciledTable {
	table := ReconciledTable{Dimension: spec.Dimension}

	roles := make([]string, 0)
	seenRole := make(map[string]bool)
	for _, src := range sources {
		for _, role := range sortedKeys(src.Roles) {
			if !seenRole[role] {
				seenRole[role] = true
				roles = append(roles, role)
			}
		}
	}

	merged := make(map[string]map[string]float64)
	for _, src := range sources {
		grouped := groupSum(src.Set, spec.Dimension, src.Roles)
		for key, sums := range grouped {
			acc, ok := merged[key]
			if !ok {
				acc = make(map[string]float64, len(roles)+len(spec.Derived))
				merged[key] = acc
			}
			for role, v := range sums {
				if role == spec.Baseline {
					if v > acc[role] {
						acc[role] = v
					}
					continue
				}
				acc[role] += v
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if MatchesAny(k, spec.Exclude) {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		values := merged[key]
		for _, role := range roles {
			if _, ok := values[role]; !ok {
				values[role] = 0
			}
		}
		base := values[spec.Baseline]
		for _, d := range spec.Derived {
			values[d.Name] = SafePercent(values[d.Numerator], base)
		}
		table.Rows = append(table.Rows, ReconciledRow{Key: key, Values: values})
	}
	return table
}

// groupSum returns role sums per key. Each key carries every mapped role,
// including roles whose column never appears (they sum to 0).
func groupSum(set RowSet, dimension string, roles map[string]string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, row := range set.Rows {
		key, _ := row.Attr(dimension)
		if key == "" {
			if v, ok := row.Measure(dimension); ok {
				key = formatKey(v)
			}
		}
		acc, ok := out[key]
		if !ok {
			acc = make(map[string]float64, len(roles))
			for role := range roles {
				acc[role] = 0
			}
			out[key] = acc
		}
		for role, column := range roles {
			acc[role] += row.Value(column)
		}
	}
	return out
}

func formatKey(v float64) string {
	return NewRow(nil, map[string]float64{"k": v}).Text("k")
}

// PickDimension returns the first candidate column present in any of the sets,
// or the last candidate when none is present.
func PickDimension(candidates []string, sets ...RowSet) string {
	for _, c := range candidates {
		for _, s := range sets {
			if s.HasColumn(c) {
				return c
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[len(candidates)-1]
}
