package engine

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Options tunes the served API.
type Options struct {
	// NoShortcuts answers 404 on every /ultimas-24h style path.
	NoShortcuts bool
	// Envelope wraps lists as {"status":true,"message":"ok","data":[...]}.
	Envelope bool
}

type row = map[string]any

type window struct {
	segment string
	days    int
}

var windows = []window{{"ultimas-24h", 1}, {"ultimas-48h", 2}, {"ultimos-7-dias", 7}}

// Server serves a Dataset with the metrics API shape.
type Server struct {
	ds   *Dataset
	opts Options

	mu     sync.Mutex
	users  []user
	nextID int
}

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
	IsActive bool   `json:"isActive"`
}

// NewServer returns the mock API over ds.
func NewServer(ds *Dataset, opts Options) *Server {
	return &Server{
		ds:   ds,
		opts: opts,
		users: []user{
			{ID: 1, Username: "admin", Nombre: "Admin", Apellido: "Tablero", Rol: "admin", IsActive: true},
			{ID: 2, Username: "supervisor", Nombre: "Sara", Apellido: "Vidal", Rol: "supervisor", IsActive: true},
		},
		nextID: 3,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	s.metric(r, "/metrics/casos-atendidos", true, s.attended)
	s.metric(r, "/metrics/casos-atendidos/resumen", false, s.attendedSummary)
	s.metric(r, "/metrics/casos-abiertos", true, s.opened)
	s.metric(r, "/metrics/casos-resueltos", true, s.resolved)
	s.metric(r, "/metrics/casos-abandonados-24h", true, s.abandoned)
	s.metric(r, "/metrics/casos-pendientes", false, s.pending)

	s.metric(r, "/metrics/tiempo-primera-respuesta", true, s.frtDetail)
	s.metric(r, "/metrics/tiempo-primera-respuesta/sla", false, s.frtSLA)
	s.metric(r, "/metrics/tiempo-primera-respuesta/ranking-agentes", false, s.frtRanking)
	s.metric(r, "/metrics/tiempo-primera-respuesta/resumen-agentes", false, s.frtSummary(byAgent))
	s.metric(r, "/metrics/tiempo-primera-respuesta/agentes-resumen", false, s.frtSummary(byAgent))
	s.metric(r, "/metrics/tiempo-primera-respuesta/resumen-equipos", false, s.frtSummary(byTeam))

	s.metric(r, "/metrics/duracion-promedio", false, s.durationSummary(byDayAgent))
	s.metric(r, "/metrics/duracion-promedio/resumen-agentes", false, s.durationSummary(byAgent))
	s.metric(r, "/metrics/duracion-promedio/resumen-equipos", false, s.durationSummary(byTeam))

	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}/deactivate", s.deactivateUser).Methods(http.MethodPatch)
	return r
}

type metricFunc func(recs []Record, q query) []row

type query struct {
	from, to time.Time
	values   map[string][]string
}

func (q query) get(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// metric registers path and, when shortcuts is set, its window sub-paths.
func (s *Server) metric(r *mux.Router, path string, shortcuts bool, fn metricFunc) {
	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		q, ok := s.rangeQuery(w, req)
		if !ok {
			return
		}
		s.writeRows(w, fn(s.filter(q, req), q))
	}).Methods(http.MethodGet)

	if !shortcuts {
		return
	}
	for _, win := range windows {
		r.HandleFunc(path+"/"+win.segment, func(w http.ResponseWriter, req *http.Request) {
			if s.opts.NoShortcuts {
				http.NotFound(w, req)
				return
			}
			today := truncateDay(s.ds.Now)
			q := query{from: today.AddDate(0, 0, -win.days), to: today, values: req.URL.Query()}
			s.writeRows(w, fn(s.filter(q, req), q))
		}).Methods(http.MethodGet)
	}
}

func (s *Server) rangeQuery(w http.ResponseWriter, req *http.Request) (query, bool) {
	v := req.URL.Query()
	q := query{values: v}
	today := truncateDay(s.ds.Now)
	q.from, q.to = today.AddDate(0, 0, -7), today
	for key, dst := range map[string]*time.Time{"desde": &q.from, "hasta": &q.to} {
		raw := v.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, raw, s.ds.Now.Location())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, key+" must be YYYY-MM-DD")
			return q, false
		}
		*dst = t
	}
	return q, true
}

func (s *Server) filter(q query, req *http.Request) []Record {
	team := req.URL.Query().Get("team_uuid")
	agent := req.URL.Query().Get("agent_email")
	var out []Record
	for _, r := range s.ds.Records {
		if r.Day.Before(q.from) || r.Day.After(q.to) {
			continue
		}
		if team != "" && r.TeamUUID != team {
			continue
		}
		if agent != "" && !strings.EqualFold(r.Agent, agent) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Server) writeRows(w http.ResponseWriter, rows []row) {
	if rows == nil {
		rows = []row{}
	}
	if s.opts.Envelope {
		writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "ok", "data": rows})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) attended(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byDayAgent) {
		out = append(out, row{
			"dia":                               a.Day,
			"team_name":                         a.Team,
			"team_uuid":                         a.TeamUUID,
			"agent_email":                       a.Agent,
			"conversaciones_entrantes":          a.Incoming,
			"conversaciones_atendidas_same_day": a.SameDay,
			"pct_atendidas":                     pct(a.SameDay, a.Incoming),
		})
	}
	return out
}

func (s *Server) attendedSummary(recs []Record, _ query) []row {
	total := groupBy(recs, byNothing)
	if len(total) == 0 {
		return []row{{"conversaciones_entrantes": 0, "conversaciones_atendidas_same_day": 0, "pct_atendidas": 0}}
	}
	a := total[0]
	return []row{{
		"conversaciones_entrantes":          a.Incoming,
		"conversaciones_atendidas_same_day": a.SameDay,
		"pct_atendidas":                     pct(a.SameDay, a.Incoming),
	}}
}

func teamAgent(a *Agg) row {
	return row{"team_name": a.Team, "team_uuid": a.TeamUUID, "agent_email": a.Agent}
}

func (s *Server) opened(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byAgent) {
		r := teamAgent(a)
		r["casos_abiertos"] = a.Opened
		out = append(out, r)
	}
	return out
}

func (s *Server) resolved(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byAgent) {
		r := teamAgent(a)
		r["casos_abiertos"] = a.Opened
		r["casos_resueltos"] = a.Resolved
		out = append(out, r)
	}
	return out
}

func (s *Server) abandoned(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byAgent) {
		r := teamAgent(a)
		r["casos_abiertos"] = a.Opened
		r["casos_abandonados_24h"] = a.Abandoned
		out = append(out, r)
	}
	return out
}

func (s *Server) pending(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byTeam) {
		out = append(out, row{"team_name": a.Team, "team_uuid": a.TeamUUID, "casos_pendientes": a.Pending})
	}
	return out
}

func frtFields(r row, a *Agg) row {
	r["casos_respondidos"] = len(a.FRT)
	r["avg_frt_seconds"] = round2(mean(a.FRT))
	r["median_frt_seconds"] = round2(percentile(a.FRT, 50))
	r["p90_frt_seconds"] = round2(percentile(a.FRT, 90))
	return r
}

func (s *Server) frtDetail(recs []Record, _ query) []row {
	var out []row
	for _, a := range groupBy(recs, byDayAgent) {
		r := teamAgent(a)
		r["dia"] = a.Day
		out = append(out, frtFields(r, a))
	}
	return out
}

func (s *Server) frtSummary(key func(Record) groupKey) metricFunc {
	return func(recs []Record, _ query) []row {
		var out []row
		for _, a := range groupBy(recs, key) {
			r := row{"team_name": a.Team, "team_uuid": a.TeamUUID}
			if a.Agent != "" {
				r["agent_email"] = a.Agent
			}
			r["casos_abiertos"] = a.Opened
			out = append(out, frtFields(r, a))
		}
		return out
	}
}

func (s *Server) frtSLA(recs []Record, q query) []row {
	maxSeconds, err := strconv.ParseFloat(q.get("max_seconds"), 64)
	if err != nil || maxSeconds <= 0 {
		maxSeconds = 300
	}
	var out []row
	for _, a := range groupBy(recs, byAgent) {
		r := teamAgent(a)
		r["casos_respondidos"] = len(a.FRT)
		r["casos_en_sla"] = a.InSLA(maxSeconds)
		out = append(out, r)
	}
	return out
}

func (s *Server) frtRanking(recs []Record, q query) []row {
	aggs := groupBy(recs, byAgent)
	slices.SortStableFunc(aggs, func(x, y *Agg) int {
		mx, my := mean(x.FRT), mean(y.FRT)
		switch {
		case mx < my:
			return -1
		case mx > my:
			return 1
		}
		return 0
	})
	if q.get("order") == "desc" {
		slices.Reverse(aggs)
	}
	if n, err := strconv.Atoi(q.get("limit")); err == nil && n > 0 && n < len(aggs) {
		aggs = aggs[:n]
	}
	var out []row
	for _, a := range aggs {
		out = append(out, row{
			"agent_email":       a.Agent,
			"team_uuid":         a.TeamUUID,
			"casos_respondidos": len(a.FRT),
			"avg_frt_seconds":   round2(mean(a.FRT)),
		})
	}
	return out
}

func (s *Server) durationSummary(key func(Record) groupKey) metricFunc {
	return func(recs []Record, _ query) []row {
		var out []row
		for _, a := range groupBy(recs, key) {
			r := row{"team_name": a.Team, "team_uuid": a.TeamUUID}
			if a.Day != "" {
				r["dia"] = a.Day
			}
			if a.Agent != "" {
				r["agent_email"] = a.Agent
			}
			r["conversaciones_cerradas"] = len(a.Durations)
			r["avg_duration_seconds"] = round2(mean(a.Durations))
			r["median_duration_seconds"] = round2(percentile(a.Durations, 50))
			r["p90_duration_seconds"] = round2(percentile(a.Durations, 90))
			out = append(out, r)
		}
		return out
	}
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round2(float64(n) / float64(d) * 100)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"status": false, "message": msg, "data": nil})
}
