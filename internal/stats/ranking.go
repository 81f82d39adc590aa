package stats

import (
	"cmp"
	"slices"
)

// Order is the sort direction of a ranking.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// Flag marks rows singled out by the extremes computation.
type Flag string

const (
	FlagNone   Flag = ""
	FlagBest   Flag = "best"
	FlagWorst  Flag = "worst"
	FlagNoData Flag = "no-data"
)

// RankOptions tunes RankBy.
type RankOptions struct {
	// Exclude lists keys kept out of the ranking population and the extremes.
	Exclude []string
	// Companion is a count column; rows where it is 0 are flagged no-data.
	Companion string
	// HigherIsBetter selects the maximum non-zero value as best.
	HigherIsBetter bool
	// Limit truncates the ranked rows when > 0, after the extremes are computed.
	// Excluded rows are never dropped.
	Limit int
}

// RankedRow is a row plus its position. Excluded rows have Rank 0.
type RankedRow struct {
	Rank     int       `json:"rank"`
	Key      string    `json:"key"`
	Value    float64   `json:"value"`
	Flag     Flag      `json:"flag,omitempty"`
	Excluded bool      `json:"excluded,omitempty"`
	Row      MetricRow `json:"row"`
}

// RankingTable is the ordered output of RankBy.
type RankingTable struct {
	Dimension  string      `json:"dimension"`
	Measure    string      `json:"measure"`
	Order      Order       `json:"order"`
	Rows       []RankedRow `json:"rows"`
	MinNonZero float64     `json:"min_nonzero"`
	MaxNonZero float64     `json:"max_nonzero"`
}

// RankBy orders rows by a measure with a stable sort and numbers them 1..N.
// Excluded keys are appended after the ranked rows, unranked and unflagged.
func RankBy(rows RowSet, dimension, measure string, order Order, opts RankOptions) RankingTable {
	table := RankingTable{Dimension: dimension, Measure: measure, Order: order}

	var ranked, excluded []RankedRow
	for _, r := range rows.Rows {
		key := r.Text(dimension)
		item := RankedRow{Key: key, Value: r.Value(measure), Row: r}
		if MatchesAny(key, opts.Exclude) {
			item.Excluded = true
			excluded = append(excluded, item)
			continue
		}
		ranked = append(ranked, item)
	}

	slices.SortStableFunc(ranked, func(a, b RankedRow) int {
		if order == Descending {
			return cmp.Compare(b.Value, a.Value)
		}
		return cmp.Compare(a.Value, b.Value)
	})

	values := make([]float64, len(ranked))
	for i := range ranked {
		ranked[i].Rank = i + 1
		values[i] = ranked[i].Value
	}

	var companions []float64
	if opts.Companion != "" {
		companions = make([]float64, len(ranked))
		for i, r := range ranked {
			v, ok := r.Row.Measure(opts.Companion)
			if !ok {
				// Unknown companion is not evidence of missing data.
				v = 1
			}
			companions[i] = v
		}
	}

	ext := FlagExtremes(values, companions, opts.HigherIsBetter)
	for i := range ranked {
		ranked[i].Flag = ext.Flags[i]
	}
	table.MinNonZero = ext.MinNonZero
	table.MaxNonZero = ext.MaxNonZero

	// Extremes cover the whole population; only the output is truncated.
	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	table.Rows = append(ranked, excluded...)
	return table
}

// Extremes is the result of FlagExtremes, aligned with the input values.
type Extremes struct {
	Flags      []Flag
	MinNonZero float64
	MaxNonZero float64
	Found      bool
}

// FlagExtremes marks values equal to the smallest and largest non-zero value.
// companions, when non-nil, must align with values; a zero companion flags no-data
// and wins over best/worst. When min and max coincide the row is flagged best.
func FlagExtremes(values, companions []float64, higherIsBetter bool) Extremes {
	ext := Extremes{Flags: make([]Flag, len(values))}
	for _, v := range values {
		if v == 0 {
			continue
		}
		if !ext.Found {
			ext.MinNonZero, ext.MaxNonZero, ext.Found = v, v, true
			continue
		}
		ext.MinNonZero = min(ext.MinNonZero, v)
		ext.MaxNonZero = max(ext.MaxNonZero, v)
	}

	best, worst := ext.MinNonZero, ext.MaxNonZero
	if higherIsBetter {
		best, worst = worst, best
	}

	for i, v := range values {
		switch {
		case companions != nil && i < len(companions) && companions[i] == 0:
			ext.Flags[i] = FlagNoData
		case !ext.Found || v == 0:
			ext.Flags[i] = FlagNone
		case v == best:
			ext.Flags[i] = FlagBest
		case v == worst:
			ext.Flags[i] = FlagWorst
		}
	}
	return ext
}

// MaxPositive returns the largest value and whether it is greater than zero.
func MaxPositive(values []float64) (float64, bool) {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best, best > 0
}
