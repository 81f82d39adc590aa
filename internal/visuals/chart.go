package visuals

import (
	"ccdash/internal/semaphore"
)

// Kind is the chart family.
type Kind string

const (
	KindBar   Kind = "bar"
	KindLine  Kind = "line"
	KindPie   Kind = "pie"
	KindDonut Kind = "donut"
)

// Chart is a renderer-neutral chart description. Colors, when set, align with Labels.
type Chart struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Center string    `json:"center,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	if len(c.Values) == 0 {
		return true
	}
	for _, v := range c.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

const remainderColor = "#e5e7eb"

// Donut draws a percentage against its remainder, colored by the classification.
func Donut(id, title string, pct float64, sem semaphore.Semaphore, label string) Chart {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return Chart{
		ID:     id,
		Kind:   KindDonut,
		Title:  title,
		Labels: []string{label, "Restante"},
		Values: []float64{pct, 100 - pct},
		Colors: []string{sem.Severity.Color(), remainderColor},
		Center: formatPercent(pct),
	}
}

// Pie draws shares of a whole.
func Pie(id, title string, labels []string, values []float64) Chart {
	return Chart{ID: id, Kind: KindPie, Title: title, Labels: labels, Values: values}
}

// Bar draws one value per category. palette maps a label to its color.
func Bar(id, title, yLabel string, labels []string, values []float64, palette map[string]string) Chart {
	c := Chart{ID: id, Kind: KindBar, Title: title, Labels: labels, Values: values, YLabel: yLabel}
	if palette != nil {
		c.Colors = make([]string, len(labels))
		for i, l := range labels {
			c.Colors[i] = palette[l]
		}
	}
	return c
}

// Line draws a series over ordered labels, typically dates.
func Line(id, title, yLabel string, labels []string, values []float64) Chart {
	return Chart{ID: id, Kind: KindLine, Title: title, Labels: labels, Values: values, YLabel: yLabel}
}
