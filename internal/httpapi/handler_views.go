package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func (s *Server) listViews(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "Vistas disponibles", views.Catalog())
}

func (s *Server) requestSchema(w http.ResponseWriter, _ *http.Request) {
	if s.schema == nil {
		writeError(w, http.StatusInternalServerError, "Esquema no disponible.")
		return
	}
	writeSuccess(w, http.StatusOK, "Esquema de solicitud de vista", s.schema)
}

// renderView answers GET /api/views/{view}?mode=&from=&to=&team=&sla_max_seconds=&format=.
// format is json (default), markdown or text.
func (s *Server) renderView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := views.Request{
		View: mux.Vars(r)["view"],
		Mode: q.Get("mode"),
		From: q.Get("from"),
		To:   q.Get("to"),
		Team: q.Get("team"),
	}
	if raw := q.Get("sla_max_seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "sla_max_seconds debe ser un entero positivo.")
			return
		}
		req.SLAMaxSeconds = n
	}

	if req.View == views.Usuarios {
		var ok bool
		if r, ok = s.deps.Verifier.allow(w, r, "admin"); !ok {
			return
		}
	}

	v, err := s.deps.Views.Render(r.Context(), req)
	switch {
	case errors.Is(err, views.ErrUnknownView):
		writeError(w, http.StatusNotFound, "Vista desconocida: "+req.View)
		return
	case errors.Is(err, views.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "Rango de fechas inválido.")
		return
	case err != nil:
		log.Error().Err(err).Str("view", req.View).Msg("View render failed")
		writeError(w, http.StatusInternalServerError, "Error al generar la vista.")
		return
	}

	switch q.Get("format") {
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown(v, report.RenderOptions{Charts: s.deps.Charts})))
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteText(w, v); err != nil {
			log.Warn().Err(err).Msg("Failed to write text view")
		}
	default:
		writeSuccess(w, http.StatusOK, v.Title, v)
	}
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if s.deps.Refresh != nil {
		if err := s.deps.Refresh(r.Context()); err != nil {
			log.Error().Err(err).Msg("Cache refresh failed")
			writeError(w, http.StatusInternalServerError, "No se pudo actualizar la caché.")
			return
		}
	}
	log.Info().Msg("Caches purged on request")
	writeSuccess(w, http.StatusOK, "Datos actualizados", nil)
}
