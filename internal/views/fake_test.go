package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"
	"ccdash/internal/stats"

	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned rows by endpoint name.
type fakeAPI struct {
	mu   sync.Mutex
	data map[string]string
	errs map[string]error
	reqs []metricsapi.Request
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{data: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAPI) on(ep metricsapi.Endpoint, body string) *fakeAPI {
	f.data[ep.Name] = body
	return f
}

func (f *fakeAPI) fail(ep metricsapi.Endpoint, err error) *fakeAPI {
	f.errs[ep.Name] = err
	return f
}

func (f *fakeAPI) Fetch(_ context.Context, req metricsapi.Request) (stats.RowSet, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	err := f.errs[req.Endpoint.Name]
	body, ok := f.data[req.Endpoint.Name]
	f.mu.Unlock()
	if err != nil {
		return stats.RowSet{}, err
	}
	if !ok {
		return stats.RowSet{Source: req.Endpoint.Name}, nil
	}
	return stats.DecodeRowSet(req.Endpoint.Name, []byte(body))
}

func (f *fakeAPI) request(name string) (metricsapi.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reqs {
		if r.Endpoint.Name == name {
			return r, true
		}
	}
	return metricsapi.Request{}, false
}

var fixedNow = time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC)

func newTestAssembler(api metricsapi.Fetcher, calls CallSource) *Assembler {
	return NewAssembler(api, nil, calls, semaphore.DefaultPolicies(), Options{
		ExcludedAgents: []string{"excluido@example.com"},
		ExcludedTeams:  []string{"CHATBOT"},
		FRTLimit:       10,
		SLAMaxSeconds:  300,
		Now:            func() time.Time { return fixedNow },
	})
}

func customState() ViewState {
	return ViewState{
		Mode:          ModeCustom,
		Range:         metricsapi.LastDays(fixedNow, 7),
		SLAMaxSeconds: 300,
	}
}

func mustTable(t *testing.T, v report.View, id string) report.Table {
	t.Helper()
	tbl, ok := v.Table(id)
	require.True(t, ok, "table %s missing; notices: %+v", id, v.Notices)
	return tbl
}

func columnLabels(t report.Table) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

func cellTexts(r report.Row) []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

func hasNotice(v report.View, level report.Level, msg string) bool {
	for _, n := range v.Notices {
		if n.Level == level && n.Message == msg {
			return true
		}
	}
	return false
}
