package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ccdash/internal/httpapi"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the views as JSON over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}
		srv := httpapi.NewServer(addr, httpapi.Deps{
			Views:    a.views,
			Users:    a.client,
			Refresh:  a.refresh,
			Verifier: httpapi.NewVerifier(cfg.AdminJWTSecret),
			Charts:   cfg.EnableMermaidCharts,
		})
		if cfg.AdminJWTSecret == "" {
			log.Warn().Msg("ADMIN_JWT_SECRET is empty; admin routes are disabled")
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		if serveOpen {
			url := "http://" + browserHost(addr) + "/api/views"
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
			}
		}
		return g.Wait()
	},
}

// browserHost turns a listen address into something a browser can reach.
func browserHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return strings.Replace(addr, "0.0.0.0", "localhost", 1)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the view list in the browser")
}
