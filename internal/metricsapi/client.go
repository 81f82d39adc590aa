package metricsapi

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"ccdash/internal/stats"
)

// Config holds the connection settings for the metrics API.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

const dateLayout = "2006-01-02"

// LastDays returns the range ending today that spans n days back: today-n .. today.
func LastDays(now time.Time, n int) DateRange {
	today := truncateDay(now)
	return DateRange{From: today.AddDate(0, 0, -n), To: today}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// String renders the range as "YYYY-MM-DD a YYYY-MM-DD".
func (r DateRange) String() string {
	return r.From.Format(dateLayout) + " a " + r.To.Format(dateLayout)
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := truncateDay(t.In(r.From.Location()))
	return !d.Before(truncateDay(r.From)) && !d.After(truncateDay(r.To))
}

func (r DateRange) params() url.Values {
	v := url.Values{}
	if !r.From.IsZero() {
		v.Set("desde", r.From.Format(dateLayout))
	}
	if !r.To.IsZero() {
		v.Set("hasta", r.To.Format(dateLayout))
	}
	return v
}

// Window is a relative range served by a shortcut endpoint.
type Window string

const (
	WindowNone Window = ""
	Window24h  Window = "24h"
	Window48h  Window = "48h"
	Window7d   Window = "7d"
)

// Days is the number of days the window covers.
func (w Window) Days() int {
	switch w {
	case Window24h:
		return 1
	case Window48h:
		return 2
	case Window7d:
		return 7
	}
	return 0
}

// Segment is the path suffix of the shortcut endpoint.
func (w Window) Segment() string {
	switch w {
	case Window24h:
		return "ultimas-24h"
	case Window48h:
		return "ultimas-48h"
	case Window7d:
		return "ultimos-7-dias"
	}
	return ""
}

// Filter narrows a query to a team or agent. Empty fields are not sent.
type Filter struct {
	Team  string `json:"team_uuid,omitempty"`
	Agent string `json:"agent_email,omitempty"`
	AsOf  string `json:"as_of,omitempty"`
}

// Request describes one metrics query.
type Request struct {
	Endpoint Endpoint
	// Window selects the shortcut endpoint; Range is still sent and is the
	// literal range used when the shortcut is unavailable.
	Window Window
	Range  DateRange
	Filter Filter
	Extra  url.Values
}

// WithInt returns a copy of the request with an extra integer parameter.
func (r Request) WithInt(key string, v int) Request {
	return r.With(key, strconv.Itoa(v))
}

// With returns a copy of the request with an extra parameter.
func (r Request) With(key, value string) Request {
	extra := url.Values{}
	for k, vs := range r.Extra {
		extra[k] = append([]string(nil), vs...)
	}
	extra.Set(key, value)
	r.Extra = extra
	return r
}

func (r Request) params() url.Values {
	v := r.Range.params()
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("team_uuid", r.Filter.Team)
	set("agent_email", r.Filter.Agent)
	set("as_of", r.Filter.AsOf)
	for k, vs := range r.Extra {
		for _, val := range vs {
			if val != "" {
				v.Add(k, val)
			}
		}
	}
	return v
}

// Fetcher retrieves metric row sets.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (stats.RowSet, error)
}

// Users manages dashboard user accounts on the API.
type Users interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, in NewUser) (User, error)
	UpdateUser(ctx context.Context, id int, in UserUpdate) (User, error)
	DeactivateUser(ctx context.Context, id int) (User, error)
}

// Client is the interface for interacting with the metrics API.
type Client interface {
	Fetcher
	Users
	// Purge drops every cached response.
	Purge(ctx context.Context) error
}

// NewClient creates a metrics API client backed by the given response cache.
// A nil store selects an in-process cache.
func NewClient(cfg Config, store Store) Client {
	return newHTTPClient(cfg, store)
}
