package engine

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
)

var roles = []string{"admin", "supervisor", "sa"}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := slices.Clone(s.users)
	s.mu.Unlock()
	if s.opts.Envelope {
		writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "ok", "data": list})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Nombre   string `json:"nombre"`
		Apellido string `json:"apellido"`
		Rol      string `json:"rol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if in.Username == "" || in.Password == "" || !slices.Contains(roles, in.Rol) {
		writeError(w, http.StatusUnprocessableEntity, "username, password and a valid rol are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == in.Username {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
	}
	u := user{
		ID:       s.nextID,
		Username: in.Username,
		Password: in.Password,
		Nombre:   in.Nombre,
		Apellido: in.Apellido,
		Rol:      in.Rol,
		IsActive: true,
	}
	s.nextID++
	s.users = append(s.users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Nombre   string `json:"nombre"`
		Apellido string `json:"apellido"`
		Rol      string `json:"rol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if in.Rol != "" && !slices.Contains(roles, in.Rol) {
		writeError(w, http.StatusUnprocessableEntity, "invalid rol")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if in.Username != "" {
		for i, u := range s.users {
			if i != idx && u.Username == in.Username {
				writeError(w, http.StatusConflict, "username already exists")
				return
			}
		}
	}
	u := &s.users[idx]
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&u.Username, in.Username)
	set(&u.Password, in.Password)
	set(&u.Nombre, in.Nombre)
	set(&u.Apellido, in.Apellido)
	set(&u.Rol, in.Rol)
	writeJSON(w, http.StatusOK, *u)
}

func (s *Server) deactivateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	s.users[idx].IsActive = false
	writeJSON(w, http.StatusOK, s.users[idx])
}

func (s *Server) indexOf(id int) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
