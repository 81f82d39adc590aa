package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/spf13/cobra"
)

var (
	renderReq    views.Request
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render <view>",
	Short: "Render one view on the terminal",
	Long: `Render one dashboard tab. Views: inicio, abandonos, frt, duracion,
llamadas, llamadas_ccc, usuarios.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		req := renderReq
		req.View = args[0]
		v, err := a.views.Render(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch renderFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		case "markdown", "md":
			_, err := fmt.Fprint(out, report.Markdown(v, report.RenderOptions{Charts: cfg.EnableMermaidCharts}))
			return err
		case "text", "":
			return report.WriteText(out, v)
		}
		return fmt.Errorf("unknown format %q (text, markdown, json)", renderFormat)
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderReq.Mode, "mode", "", "range mode: last_24h, last_48h, last_7d, last_30d, today, yesterday, custom")
	f.StringVar(&renderReq.From, "from", "", "custom range start (YYYY-MM-DD)")
	f.StringVar(&renderReq.To, "to", "", "custom range end (YYYY-MM-DD)")
	f.StringVar(&renderReq.Team, "team", "", "unit (empresa) to filter by")
	f.IntVar(&renderReq.SLAMaxSeconds, "max-seconds", 0, "first-response SLA threshold in seconds")
	f.StringVar(&renderFormat, "format", "text", "output format: text, markdown, json")
	renderCmd.SetOut(os.Stdout)
}
