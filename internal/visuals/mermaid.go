package visuals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mermaid renders the chart as a fenced mermaid block. Pie and donut charts
// use the pie syntax; bar and line charts use xychart-beta.
func Mermaid(c Chart) string {
	if c.Empty() {
		return ""
	}
	switch c.Kind {
	case KindPie, KindDonut:
		return mermaidPie(c)
	default:
		return mermaidXY(c)
	}
}

func mermaidPie(c Chart) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", c.Title))
	for i, v := range c.Values {
		if v <= 0 || i >= len(c.Labels) {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %q : %s\n", c.Labels[i], formatValue(v)))
	}
	sb.WriteString("```")
	return sb.String()
}

func mermaidXY(c Chart) string {
	var labels []string
	var values []string
	maxVal := 0.0

	// Subsample points past 60, where the layout starts overlapping labels
	step := 1
	if len(c.Values) > 60 {
		step = int(math.Ceil(float64(len(c.Values)) / 60.0))
	}

	for i, v := range c.Values {
		if i%step != 0 && i != len(c.Values)-1 {
			continue
		}
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		labels = append(labels, fmt.Sprintf("%q", label))
		values = append(values, formatValue(v))
		if v > maxVal {
			maxVal = v
		}
	}

	series := "bar"
	if c.Kind == KindLine {
		series = "line"
	}
	yLabel := c.YLabel
	if yLabel == "" {
		yLabel = "Valor"
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", c.Title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %q 0 --> %d\n", yLabel, int(math.Ceil(math.Max(1, maxVal*1.2)))))
	sb.WriteString(fmt.Sprintf("    %s [%s]\n", series, strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
