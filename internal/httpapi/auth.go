package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// Claims is the part of the dashboard token the gate inspects.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Rol      string `json:"rol"`
}

type claimsKey struct{}

var (
	errNoToken      = errors.New("authorization header required")
	errBadToken     = errors.New("invalid or expired token")
	errAuthDisabled = errors.New("admin routes are disabled")
)

// Verifier checks HS256 bearer tokens signed with a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a verifier for secret. An empty secret rejects every token.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses the bearer token of r.
func (v *Verifier) Verify(r *http.Request) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, errAuthDisabled
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return nil, errNoToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadToken, err)
	}
	return claims, nil
}

// Sign issues a token for the role. It is used by the CLI and tests.
func (v *Verifier) Sign(username, rol string) (string, error) {
	if len(v.secret) == 0 {
		return "", errAuthDisabled
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: username, Rol: rol})
	return tok.SignedString(v.secret)
}

// allow writes the rejection and reports false when r does not carry role.
func (v *Verifier) allow(w http.ResponseWriter, r *http.Request, role string) (*http.Request, bool) {
	claims, err := v.Verify(r)
	switch {
	case errors.Is(err, errAuthDisabled):
		writeError(w, http.StatusForbidden, "Administración deshabilitada.")
		return r, false
	case err != nil:
		writeError(w, http.StatusUnauthorized, "Token inválido o ausente.")
		return r, false
	case claims.Rol != role:
		writeError(w, http.StatusForbidden, "Se requiere el rol "+role+".")
		return r, false
	}
	return r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)), true
}

// RequireRole gates a router on the rol claim.
func (v *Verifier) RequireRole(role string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, ok := v.allow(w, r, role)
			if !ok {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFrom returns the verified claims of a gated request.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
