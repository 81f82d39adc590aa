// Package views assembles the dashboard tabs from the metrics API and the
// local call exports. Every tab is a pure function of its ViewState plus the
// data sources; nothing is kept between renders.
package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ccdash/internal/csvsource"
	"ccdash/internal/metricsapi"
	"ccdash/internal/observability"
	"ccdash/internal/report"
	"ccdash/internal/semaphore"

	"github.com/rs/zerolog/log"
)

// View names.
const (
	Inicio      = "inicio"
	Abandonos   = "abandonos"
	FRT         = "frt"
	Duracion    = "duracion"
	Llamadas    = "llamadas"
	LlamadasCCC = "llamadas_ccc"
	Usuarios    = "usuarios"
)

const allTeams = "Todos"

// ErrUnknownView is returned by Render for names outside Catalog.
var ErrUnknownView = errors.New("unknown view")

// Info describes a tab for listing surfaces.
type Info struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Modes       []Mode `json:"modes,omitempty"`
	Admin       bool   `json:"admin,omitempty"`
}

// Catalog lists every tab in display order.
func Catalog() []Info {
	return []Info{
		{Name: Inicio, Title: "Inicio", Description: "Casos atendidos, resoluciones por unidad y agente, SLA por unidad.", Modes: APIModes},
		{Name: Abandonos, Title: "Abandonos", Description: "Casos resueltos frente a abandonados (24h) por unidad y agente.", Modes: APIModes},
		{Name: FRT, Title: "Tiempo de primera respuesta", Description: "FRT promedio, mediana y P90; ranking y SLA por agente y unidad.", Modes: APIModes},
		{Name: Duracion, Title: "Duracion Promedio", Description: "Duracion de conversaciones cerradas por agente y unidad.", Modes: APIModes},
		{Name: Llamadas, Title: "Llamadas", Description: "Encuestas de satisfaccion y detalle de llamadas desde CSV.", Modes: CallModes},
		{Name: LlamadasCCC, Title: "Llamadas CCC", Description: "Pausas por agente y detalle de llamadas del CCC desde CSV.", Modes: CallModes},
		{Name: Usuarios, Title: "Usuarios", Description: "Listado de usuarios del tablero.", Admin: true},
	}
}

// CallSource loads CSV exports by file name.
type CallSource interface {
	Load(name string) (csvsource.Table, error)
}

// Options carries the configuration the assembler needs.
type Options struct {
	ExcludedAgents []string
	ExcludedTeams  []string
	FRTLimit       int
	SLAMaxSeconds  int
	Now            func() time.Time
}

// Assembler builds views. It is safe for concurrent use.
type Assembler struct {
	api      metricsapi.Fetcher
	users    metricsapi.Users
	calls    CallSource
	policies semaphore.PolicySet
	opts     Options
}

// NewAssembler wires the data sources. users and calls may be nil; the
// corresponding tabs then render a notice.
func NewAssembler(api metricsapi.Fetcher, users metricsapi.Users, calls CallSource, policies semaphore.PolicySet, opts Options) *Assembler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FRTLimit <= 0 {
		opts.FRTLimit = 10
	}
	if opts.SLAMaxSeconds <= 0 {
		opts.SLAMaxSeconds = 300
	}
	if policies == nil {
		policies = semaphore.DefaultPolicies()
	}
	return &Assembler{api: api, users: users, calls: calls, policies: policies, opts: opts}
}

// Render assembles the requested tab.
func (a *Assembler) Render(ctx context.Context, req Request) (report.View, error) {
	defaultMode := ModeCustom
	if req.View == Llamadas || req.View == LlamadasCCC {
		defaultMode = ModeToday
	}
	state, err := req.State(a.opts.Now(), defaultMode, a.opts.SLAMaxSeconds)
	if err != nil {
		return report.View{}, err
	}

	var v report.View
	switch req.View {
	case Inicio:
		v = a.Inicio(ctx, state)
	case Abandonos:
		v = a.Abandonos(ctx, state)
	case FRT:
		v = a.FRT(ctx, state)
	case Duracion:
		v = a.Duracion(ctx, state)
	case Llamadas:
		v = a.Llamadas(ctx, state)
	case LlamadasCCC:
		v = a.LlamadasCCC(ctx, state)
	case Usuarios:
		v = a.Usuarios(ctx)
	default:
		return report.View{}, fmt.Errorf("%w: %q", ErrUnknownView, req.View)
	}

	outcome := "ok"
	switch {
	case v.Degraded():
		outcome = "degraded"
	case len(v.Tables) == 0 && len(v.KPIs) == 0:
		outcome = "empty"
	}
	observability.ViewRenders.WithLabelValues(v.Name, outcome).Inc()
	log.Info().Str("view", v.Name).Str("mode", string(state.Mode)).Str("range", state.Range.String()).Str("outcome", outcome).Msg("View assembled")
	return v, nil
}

func newView(name string, state ViewState) report.View {
	v := report.View{Name: name, State: state, Range: state.Range.String()}
	for _, info := range Catalog() {
		if info.Name == name {
			v.Title = info.Title
		}
	}
	return v
}
