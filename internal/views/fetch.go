package views

import (
	"context"
	"slices"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/stats"

	"github.com/rs/zerolog/log"
)

type fetched struct {
	set stats.RowSet
	err error
}

// batch holds the outcome of every request of a view by section name.
type batch map[string]fetched

// fetchAll issues the requests one after the other, in section name order.
// A failed request does not stop the rest; its error is kept for the section
// that needs it.
func (a *Assembler) fetchAll(ctx context.Context, reqs map[string]metricsapi.Request) batch {
	names := make([]string, 0, len(reqs))
	for name := range reqs {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make(batch, len(reqs))
	for _, name := range names {
		req := reqs[name]
		set, err := a.api.Fetch(ctx, req)
		if err != nil {
			log.Warn().Err(err).Str("section", name).Str("endpoint", req.Endpoint.Name).Msg("Metrics request failed")
		}
		out[name] = fetched{set: set, err: err}
	}
	return out
}

// get returns the rows of a section. On failure it raises an error notice on
// the view and reports false.
func (b batch) get(name string, v *report.View) (stats.RowSet, bool) {
	f, ok := b[name]
	if !ok {
		return stats.RowSet{}, false
	}
	if f.err != nil {
		v.Notify(name, report.LevelError, metricsapi.FetchMessage(f.err))
		return stats.RowSet{}, false
	}
	return f.set, true
}

func rangeRequest(ep metricsapi.Endpoint, s ViewState) metricsapi.Request {
	return metricsapi.Request{Endpoint: ep, Range: s.Range}
}

func windowRequest(ep metricsapi.Endpoint, s ViewState) metricsapi.Request {
	return metricsapi.Request{Endpoint: ep, Window: s.Window(), Range: s.Range}
}

func (a *Assembler) slaRequest(s ViewState) metricsapi.Request {
	return rangeRequest(metricsapi.FRTSLA, s).WithInt("max_seconds", s.SLAMaxSeconds)
}

func (a *Assembler) withoutAgents(set stats.RowSet) stats.RowSet {
	if len(a.opts.ExcludedAgents) == 0 {
		return set
	}
	return set.Without(colAgent, a.opts.ExcludedAgents).Without(colAgentAlt, a.opts.ExcludedAgents)
}

func (a *Assembler) withoutTeams(set stats.RowSet) stats.RowSet {
	if len(a.opts.ExcludedTeams) == 0 {
		return set
	}
	return set.Without(colTeam, a.opts.ExcludedTeams)
}

// teamOptions lists the selectable units, excluded teams removed.
func (a *Assembler) teamOptions(dimension string, sets ...stats.RowSet) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sets {
		for _, t := range s.Distinct(dimension) {
			if seen[t] || stats.MatchesAny(t, a.opts.ExcludedTeams) {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return sortStrings(out)
}
