package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	last views.Request
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, req views.Request) (report.View, error) {
	f.last = req
	if f.err != nil {
		return report.View{}, f.err
	}
	v := report.View{Name: req.View, Title: "Inicio", Range: "2024-03-01 a 2024-03-08"}
	v.KPIs = append(v.KPIs, report.KPI{ID: "entrantes", Label: "Conversaciones entrantes", Value: "12"})
	return v, nil
}

type fakeUsers struct {
	list    []metricsapi.User
	err     error
	created metricsapi.NewUser
	updated metricsapi.UserUpdate
}

func (f *fakeUsers) ListUsers(context.Context) ([]metricsapi.User, error) { return f.list, f.err }

func (f *fakeUsers) CreateUser(_ context.Context, in metricsapi.NewUser) (metricsapi.User, error) {
	f.created = in
	if f.err != nil {
		return metricsapi.User{}, f.err
	}
	return metricsapi.User{ID: 9, Username: in.Username, Rol: in.Rol, IsActive: true}, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, id int, in metricsapi.UserUpdate) (metricsapi.User, error) {
	f.updated = in
	if in.Empty() {
		return metricsapi.User{}, metricsapi.ErrNoChanges
	}
	if f.err != nil {
		return metricsapi.User{}, f.err
	}
	return metricsapi.User{ID: id, Username: in.Username}, nil
}

func (f *fakeUsers) DeactivateUser(_ context.Context, id int) (metricsapi.User, error) {
	if f.err != nil {
		return metricsapi.User{}, f.err
	}
	return metricsapi.User{ID: id}, nil
}

const testSecret = "s3cret"

func newTestServer(r Renderer, u metricsapi.Users, refresh func(context.Context) error) *Server {
	return NewServer(":0", Deps{Views: r, Users: u, Refresh: refresh, Verifier: NewVerifier(testSecret)})
}

func do(t *testing.T, s *Server, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func token(t *testing.T, rol string) string {
	t.Helper()
	tok, err := NewVerifier(testSecret).Sign("ana", rol)
	require.NoError(t, err)
	return tok
}

func TestRenderView(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestServer(r, nil, nil)

	rec, env := do(t, s, http.MethodGet, "/api/views/inicio?mode=24h&team=T1&sla_max_seconds=120", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, "Inicio", env.Message)
	assert.Equal(t, views.Request{View: "inicio", Mode: "24h", Team: "T1", SLAMaxSeconds: 120}, r.last)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "inicio", data["name"])
}

func TestRenderView_Formats(t *testing.T) {
	s := newTestServer(&fakeRenderer{}, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/api/views/inicio?format=markdown", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "## Inicio")
	assert.Contains(t, rec.Body.String(), "**Conversaciones entrantes**: 12")

	rec, _ = do(t, s, http.MethodGet, "/api/views/inicio?format=text", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rango: 2024-03-01 a 2024-03-08")
}

func TestRenderView_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target string
		code   int
	}{
		{"unknown view", views.ErrUnknownView, "/api/views/otra", http.StatusNotFound},
		{"bad range", views.ErrInvalidRange, "/api/views/inicio?from=2024-03-09&to=2024-03-01", http.StatusBadRequest},
		{"other", errors.New("boom"), "/api/views/inicio", http.StatusInternalServerError},
		{"bad sla", nil, "/api/views/inicio?sla_max_seconds=abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(&fakeRenderer{err: tc.err}, nil, nil)
			rec, env := do(t, s, http.MethodGet, tc.target, "", "")
			assert.Equal(t, tc.code, rec.Code)
			assert.False(t, env.Status)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestUsuariosViewRequiresAdmin(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestServer(r, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/api/views/usuarios", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/views/usuarios", "", token(t, "supervisor"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/views/usuarios", "", token(t, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, views.Usuarios, r.last.View)
}

func TestListViewsAndSchema(t *testing.T) {
	s := newTestServer(&fakeRenderer{}, nil, nil)

	rec, env := do(t, s, http.MethodGet, "/api/views", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, len(views.Catalog()))

	rec, env = do(t, s, http.MethodGet, "/api/schema", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	schema, ok := env.Data.(map[string]any)
	require.True(t, ok)
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "view")
	assert.Contains(t, props, "sla_max_seconds")
}

func TestRefresh(t *testing.T) {
	calls := 0
	s := newTestServer(&fakeRenderer{}, nil, func(context.Context) error {
		calls++
		return nil
	})
	rec, env := do(t, s, http.MethodPost, "/api/cache/refresh", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, 1, calls)

	rec, env = do(t, s, http.MethodGet, "/api/cache/refresh", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, env.Status)
	assert.Equal(t, "Método no permitido.", env.Message)

	s = newTestServer(&fakeRenderer{}, nil, func(context.Context) error { return errors.New("redis down") })
	rec, _ = do(t, s, http.MethodPost, "/api/cache/refresh", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeRenderer{}, &fakeUsers{}, nil)
	tests := []struct {
		method, target string
	}{
		{http.MethodPost, "/api/views"},
		{http.MethodDelete, "/api/views/inicio"},
		{http.MethodDelete, "/api/admin/users"},
		{http.MethodPost, "/health"},
	}
	for _, tt := range tests {
		rec, _ := do(t, s, tt.method, tt.target, "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.target)
	}

	rec, _ := do(t, s, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(&fakeRenderer{}, nil, nil)
	rec, env := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)

	do(t, s, http.MethodGet, "/api/views", "", "")
	rec, _ = do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ccdash_http_requests_total{code="200",route="/api/views"}`)
}

func TestAdminUsers(t *testing.T) {
	u := &fakeUsers{list: []metricsapi.User{{ID: 1, Username: "admin", Rol: "admin", IsActive: true}}}
	s := newTestServer(&fakeRenderer{}, u, nil)
	admin := token(t, "admin")

	rec, _ := do(t, s, http.MethodGet, "/api/admin/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := do(t, s, http.MethodGet, "/api/admin/users", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data, 1)

	rec, env = do(t, s, http.MethodPost, "/api/admin/users",
		`{"username":" ops ","password":"x","nombre":"Olga","apellido":"P","rol":"supervisor"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ops", u.created.Username)
	assert.Equal(t, "Usuario creado", env.Message)

	rec, _ = do(t, s, http.MethodPost, "/api/admin/users", `{"username":"ops","password":"x","rol":"root"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, s, http.MethodPut, "/api/admin/users/3", `{}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, metricsapi.MsgNoChanges, env.Message)

	rec, _ = do(t, s, http.MethodPut, "/api/admin/users/3", `{"username":"nuevo"}`, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nuevo", u.updated.Username)

	rec, env = do(t, s, http.MethodPatch, "/api/admin/users/3/deactivate", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Usuario desactivado", env.Message)
}

func TestAdminUsers_UpstreamErrors(t *testing.T) {
	admin := token(t, "admin")
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&metricsapi.StatusError{StatusCode: http.StatusNotFound}, http.StatusNotFound, metricsapi.MsgUserNotFound},
		{&metricsapi.StatusError{StatusCode: http.StatusConflict}, http.StatusConflict, metricsapi.MsgUserConflict},
		{metricsapi.ErrUnreachable, http.StatusBadGateway, metricsapi.MsgUnreachable},
		{&metricsapi.StatusError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway, metricsapi.MsgRequestError},
	}
	for _, tc := range cases {
		s := newTestServer(&fakeRenderer{}, &fakeUsers{err: tc.err}, nil)
		rec, env := do(t, s, http.MethodPatch, "/api/admin/users/5/deactivate", "", admin)
		assert.Equal(t, tc.code, rec.Code, tc.msg)
		assert.Equal(t, tc.msg, env.Message)
	}
}

func TestVerifier(t *testing.T) {
	v := NewVerifier(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := v.Verify(req)
	assert.ErrorIs(t, err, errNoToken)

	req.Header.Set("Authorization", "Bearer "+token(t, "admin"))
	claims, err := v.Verify(req)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Rol)
	assert.Equal(t, "ana", claims.Username)

	other, err := NewVerifier("otro").Sign("ana", "admin")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+other)
	_, err = v.Verify(req)
	assert.ErrorIs(t, err, errBadToken)

	_, err = NewVerifier("").Verify(req)
	assert.ErrorIs(t, err, errAuthDisabled)
}

func TestRecovery(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
