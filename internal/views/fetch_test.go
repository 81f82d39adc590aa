package views

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ccdash/internal/metricsapi"
	"ccdash/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingAPI records call order and the highest number of overlapping calls.
type trackingAPI struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	order    []string
}

func (f *trackingAPI) Fetch(_ context.Context, req metricsapi.Request) (stats.RowSet, error) {
	f.mu.Lock()
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
	f.order = append(f.order, req.Endpoint.Name)
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	if req.Endpoint.Name == metricsapi.FRTSLA.Name {
		return stats.RowSet{}, errors.New("boom")
	}
	return stats.RowSet{Source: req.Endpoint.Name}, nil
}

func TestFetchAll_OneRequestAtATime(t *testing.T) {
	api := &trackingAPI{}
	a := newTestAssembler(api, nil)
	s := customState()

	b := a.fetchAll(context.Background(), map[string]metricsapi.Request{
		"c": rangeRequest(metricsapi.FRT, s),
		"a": a.slaRequest(s),
		"b": rangeRequest(metricsapi.Duracion, s),
	})

	assert.Equal(t, 1, api.peak)
	assert.Equal(t, []string{metricsapi.FRTSLA.Name, metricsapi.Duracion.Name, metricsapi.FRT.Name}, api.order)
	require.Len(t, b, 3)
	assert.Error(t, b["a"].err, "a failed request is kept for its section")
	assert.NoError(t, b["b"].err)
	assert.NoError(t, b["c"].err)
}
