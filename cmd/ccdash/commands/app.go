package commands

import (
	"context"
	"fmt"

	"ccdash/internal/csvsource"
	"ccdash/internal/metricsapi"
	"ccdash/internal/semaphore"
	"ccdash/internal/views"

	"github.com/rs/zerolog/log"
)

// app bundles the collaborators every surface shares.
type app struct {
	client metricsapi.Client
	calls  *csvsource.Store
	views  *views.Assembler
	close  func() error
}

func buildApp(ctx context.Context) (*app, error) {
	var store metricsapi.Store
	closeFn := func() error { return nil }
	if cfg.RedisURL != "" {
		rs, err := metricsapi.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		store = rs
		closeFn = rs.Close
		log.Info().Msg("Using Redis response cache")
	}

	policies := semaphore.DefaultPolicies()
	if cfg.Thresholds != "" {
		loaded, err := semaphore.LoadPolicies(cfg.Thresholds)
		if err != nil {
			return nil, fmt.Errorf("thresholds: %w", err)
		}
		policies = loaded
		log.Info().Str("path", cfg.Thresholds).Msg("Loaded threshold overrides")
	}
	for metric, names := range policies.Divergent() {
		log.Debug().Str("metric", metric).Strs("policies", names).Msg("Views use different thresholds for the same metric")
	}

	client := metricsapi.NewClient(cfg.API, store)
	calls := csvsource.NewStore(cfg.CallsDir)
	asm := views.NewAssembler(client, client, calls, policies, views.Options{
		ExcludedAgents: cfg.ExcludedAgents,
		ExcludedTeams:  cfg.ExcludedTeams,
		FRTLimit:       cfg.FRTLimit,
		SLAMaxSeconds:  cfg.SLAMaxSeconds,
	})
	return &app{client: client, calls: calls, views: asm, close: closeFn}, nil
}

// refresh drops every cached API response and CSV parse.
func (a *app) refresh(ctx context.Context) error {
	a.calls.Purge()
	return a.client.Purge(ctx)
}
