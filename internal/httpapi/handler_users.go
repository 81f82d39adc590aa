package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ccdash/internal/metricsapi"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func userStatus(err error) int {
	switch {
	case errors.Is(err, metricsapi.ErrNoChanges):
		return http.StatusBadRequest
	case metricsapi.IsNotFound(err):
		return http.StatusNotFound
	case metricsapi.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func (s *Server) writeUserError(w http.ResponseWriter, op string, err error) {
	log.Warn().Err(err).Str("op", op).Msg("User administration failed")
	writeError(w, userStatus(err), metricsapi.UserMessage(err))
}

func (s *Server) usersAvailable(w http.ResponseWriter) bool {
	if s.deps.Users == nil {
		writeError(w, http.StatusServiceUnavailable, metricsapi.MsgUnreachable)
		return false
	}
	return true
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !s.usersAvailable(w) {
		return
	}
	users, err := s.deps.Users.ListUsers(r.Context())
	if err != nil {
		s.writeUserError(w, "list", err)
		return
	}
	if users == nil {
		users = []metricsapi.User{}
	}
	writeSuccess(w, http.StatusOK, "Usuarios", users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if !s.usersAvailable(w) {
		return
	}
	var in metricsapi.NewUser
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de solicitud inválido.")
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username y password son obligatorios.")
		return
	}
	if !metricsapi.ValidRole(in.Rol) {
		writeError(w, http.StatusBadRequest, "Rol inválido: "+in.Rol)
		return
	}
	u, err := s.deps.Users.CreateUser(r.Context(), in)
	if err != nil {
		s.writeUserError(w, "create", err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Usuario creado", u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	if !s.usersAvailable(w) {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var in metricsapi.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de solicitud inválido.")
		return
	}
	if in.Rol != "" && !metricsapi.ValidRole(in.Rol) {
		writeError(w, http.StatusBadRequest, "Rol inválido: "+in.Rol)
		return
	}
	u, err := s.deps.Users.UpdateUser(r.Context(), id, in)
	if err != nil {
		s.writeUserError(w, "update", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Usuario actualizado", u)
}

func (s *Server) deactivateUser(w http.ResponseWriter, r *http.Request) {
	if !s.usersAvailable(w) {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	u, err := s.deps.Users.DeactivateUser(r.Context(), id)
	if err != nil {
		s.writeUserError(w, "deactivate", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Usuario desactivado", u)
}
