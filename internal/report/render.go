package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ccdash/internal/semaphore"
	"ccdash/internal/visuals"
)

// RenderOptions controls the text surfaces.
type RenderOptions struct {
	// Charts emits mermaid blocks for every non-empty chart.
	Charts bool
}

// WriteText renders the view as aligned plain-text tables.
func WriteText(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", v.Title)
	if v.Range != "" {
		fmt.Fprintf(tw, "Rango: %s\n", v.Range)
	}
	for _, n := range v.Notices {
		fmt.Fprintf(tw, "[%s] %s\n", n.Level, n.Message)
	}
	if len(v.KPIs) > 0 {
		fmt.Fprintln(tw)
		for _, k := range v.KPIs {
			fmt.Fprintf(tw, "%s:\t%s%s\n", k.Label, k.Value, kpiSuffix(k))
		}
	}
	for _, t := range v.Tables {
		fmt.Fprintf(tw, "\n%s\n", t.Title)
		header := []string{"#"}
		for _, c := range t.Columns {
			header = append(header, c.Label)
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, r := range t.Rows {
			line := []string{fmt.Sprintf("%d", r.Index)}
			for _, c := range r.Cells {
				line = append(line, c.Text+severityMark(c.Severity))
			}
			fmt.Fprintln(tw, strings.Join(line, "\t")+rowMark(r))
		}
	}
	return tw.Flush()
}

// Markdown renders the view for chat surfaces.
func Markdown(v View, opts RenderOptions) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n", v.Title))
	if v.Range != "" {
		sb.WriteString(fmt.Sprintf("_Rango: %s_\n", v.Range))
	}
	for _, n := range v.Notices {
		sb.WriteString(fmt.Sprintf("\n> %s %s\n", noticeIcon(n.Level), n.Message))
	}
	if len(v.KPIs) > 0 {
		sb.WriteString("\n")
		for _, k := range v.KPIs {
			sb.WriteString(fmt.Sprintf("- **%s**: %s%s\n", k.Label, k.Value, kpiSuffix(k)))
		}
	}
	if opts.Charts {
		for _, c := range v.Charts {
			if out := visuals.Mermaid(c); out != "" {
				sb.WriteString("\n" + out + "\n")
			}
		}
	}
	for _, t := range v.Tables {
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", t.Title))
		sb.WriteString("| # |")
		for _, c := range t.Columns {
			sb.WriteString(fmt.Sprintf(" %s |", c.Label))
		}
		sb.WriteString("\n|---|")
		for range t.Columns {
			sb.WriteString("---|")
		}
		sb.WriteString("\n")
		for _, r := range t.Rows {
			sb.WriteString(fmt.Sprintf("| %d |", r.Index))
			for _, c := range r.Cells {
				text := strings.ReplaceAll(c.Text, "|", "\\|")
				if c.Severity != "" {
					text = c.Severity.Icon() + " " + text
				}
				sb.WriteString(fmt.Sprintf(" %s |", text))
			}
			sb.WriteString(rowMark(r) + "\n")
		}
	}
	return sb.String()
}

func kpiSuffix(k KPI) string {
	if k.Semaphore == nil {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", k.Semaphore.Severity.Icon(), k.Semaphore.Label)
}

func severityMark(s semaphore.Severity) string {
	if s == "" {
		return ""
	}
	return " " + s.Icon()
}

func rowMark(r Row) string {
	if r.Highlight == "" {
		return ""
	}
	return " " + r.Highlight.Icon()
}

func noticeIcon(l Level) string {
	switch l {
	case LevelError:
		return "❌"
	case LevelWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
