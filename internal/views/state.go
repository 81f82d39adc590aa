package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ccdash/internal/metricsapi"
)

// Mode is the quick range selector.
type Mode string

const (
	ModeLast24h   Mode = "last_24h"
	ModeLast48h   Mode = "last_48h"
	ModeLast7d    Mode = "last_7d"
	ModeLast30d   Mode = "last_30d"
	ModeToday     Mode = "today"
	ModeYesterday Mode = "yesterday"
	ModeCustom    Mode = "custom"
)

// APIModes are offered by the views backed by the metrics API.
var APIModes = []Mode{ModeLast24h, ModeLast48h, ModeLast7d, ModeCustom}

// CallModes are offered by the CSV-backed call views.
var CallModes = []Mode{ModeToday, ModeYesterday, ModeLast7d, ModeLast30d, ModeCustom}

var modeAliases = map[string]Mode{
	"24h":             ModeLast24h,
	"ultimas 24h":     ModeLast24h,
	"48h":             ModeLast48h,
	"ultimas 48h":     ModeLast48h,
	"7d":              ModeLast7d,
	"ultimos 7 dias":  ModeLast7d,
	"30d":             ModeLast30d,
	"ultimos 30 dias": ModeLast30d,
	"hoy":             ModeToday,
	"ayer":            ModeYesterday,
	"personalizado":   ModeCustom,
}

// ErrInvalidRange is returned for unknown modes and malformed or inverted dates.
var ErrInvalidRange = errors.New("invalid range")

// ParseMode accepts the canonical names plus the short and Spanish labels.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, m := range append(append([]Mode{}, APIModes...), CallModes...) {
		if string(m) == s {
			return m, nil
		}
	}
	if m, ok := modeAliases[s]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRange, s)
}

// Window is the shortcut endpoint family for the mode, if any.
func (m Mode) Window() metricsapi.Window {
	switch m {
	case ModeLast24h:
		return metricsapi.Window24h
	case ModeLast48h:
		return metricsapi.Window48h
	case ModeLast7d:
		return metricsapi.Window7d
	}
	return metricsapi.WindowNone
}

// ResolveRange turns a mode into concrete dates. Custom keeps the given range,
// or the last seven days when none is given.
func ResolveRange(mode Mode, now time.Time, custom metricsapi.DateRange) metricsapi.DateRange {
	switch mode {
	case ModeLast24h:
		return metricsapi.LastDays(now, 1)
	case ModeLast48h:
		return metricsapi.LastDays(now, 2)
	case ModeLast7d:
		return metricsapi.LastDays(now, 7)
	case ModeLast30d:
		return metricsapi.LastDays(now, 30)
	case ModeToday:
		return metricsapi.LastDays(now, 0)
	case ModeYesterday:
		y := metricsapi.LastDays(now, 1).From
		return metricsapi.DateRange{From: y, To: y}
	}
	if custom.From.IsZero() || custom.To.IsZero() {
		return metricsapi.LastDays(now, 7)
	}
	return custom
}

// Request is what a surface asks for. Dates use YYYY-MM-DD.
type Request struct {
	View          string `json:"view" jsonschema:"dashboard tab: inicio, abandonos, frt, duracion, llamadas, llamadas_ccc, usuarios"`
	Mode          string `json:"mode,omitempty" jsonschema:"quick range: last_24h, last_48h, last_7d, last_30d, today, yesterday or custom"`
	From          string `json:"from,omitempty" jsonschema:"custom range start (YYYY-MM-DD)"`
	To            string `json:"to,omitempty" jsonschema:"custom range end (YYYY-MM-DD)"`
	Team          string `json:"team,omitempty" jsonschema:"unit (empresa) name to filter by; empty means all"`
	SLAMaxSeconds int    `json:"sla_max_seconds,omitempty" jsonschema:"first-response SLA threshold in seconds"`
}

// ViewState is the resolved selection echoed back with every view.
type ViewState struct {
	Mode          Mode                 `json:"mode"`
	Range         metricsapi.DateRange `json:"range"`
	Team          string               `json:"team,omitempty"`
	SLAMaxSeconds int                  `json:"sla_max_seconds"`
}

// Window is the shortcut family for the state's mode.
func (s ViewState) Window() metricsapi.Window { return s.Mode.Window() }

const dateLayout = "2006-01-02"

// State resolves the request against the clock. defaultMode applies when none is given.
func (r Request) State(now time.Time, defaultMode Mode, defaultSLA int) (ViewState, error) {
	mode, err := ParseMode(r.Mode)
	if err != nil {
		return ViewState{}, err
	}
	if mode == "" {
		mode = defaultMode
	}

	var custom metricsapi.DateRange
	if r.From != "" || r.To != "" {
		if r.From == "" || r.To == "" {
			return ViewState{}, fmt.Errorf("%w: both from and to are required", ErrInvalidRange)
		}
		from, err := time.ParseInLocation(dateLayout, r.From, now.Location())
		if err != nil {
			return ViewState{}, fmt.Errorf("%w: from: %v", ErrInvalidRange, err)
		}
		to, err := time.ParseInLocation(dateLayout, r.To, now.Location())
		if err != nil {
			return ViewState{}, fmt.Errorf("%w: to: %v", ErrInvalidRange, err)
		}
		if to.Before(from) {
			return ViewState{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.From, r.To)
		}
		custom = metricsapi.DateRange{From: from, To: to}
		if r.Mode == "" {
			mode = ModeCustom
		}
	}

	team := strings.TrimSpace(r.Team)
	if strings.EqualFold(team, allTeams) {
		team = ""
	}

	sla := r.SLAMaxSeconds
	if sla <= 0 {
		sla = defaultSLA
	}
	return ViewState{
		Mode:          mode,
		Range:         ResolveRange(mode, now, custom),
		Team:          team,
		SLAMaxSeconds: sla,
	}, nil
}
