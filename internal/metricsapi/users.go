package metricsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
)

// Roles accepted by the API.
var Roles = []string{"admin", "supervisor", "sa"}

// ValidRole reports whether r is one of Roles.
func ValidRole(r string) bool { return slices.Contains(Roles, r) }

// User is a dashboard account as returned by the API.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
	IsActive bool   `json:"isActive"`
}

// Estado is the Spanish status label of the account.
func (u User) Estado() string {
	if u.IsActive {
		return "Activo"
	}
	return "Inactivo"
}

// NewUser is the payload of a user creation.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
}

// UserUpdate carries the optional fields of a user modification. Empty fields are not sent.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
	Rol      string `json:"rol,omitempty"`
}

// Empty reports whether the update carries no field.
func (u UserUpdate) Empty() bool { return u == UserUpdate{} }

func (c *httpClient) ListUsers(ctx context.Context) ([]User, error) {
	body, err := c.do(ctx, "users", http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := decodeListOrEnvelope(body, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (c *httpClient) CreateUser(ctx context.Context, in NewUser) (User, error) {
	return c.userCall(ctx, http.MethodPost, "/users", in)
}

func (c *httpClient) UpdateUser(ctx context.Context, id int, in UserUpdate) (User, error) {
	if in.Empty() {
		return User{}, ErrNoChanges
	}
	return c.userCall(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), in)
}

func (c *httpClient) DeactivateUser(ctx context.Context, id int) (User, error) {
	return c.userCall(ctx, http.MethodPatch, "/users/"+strconv.Itoa(id)+"/deactivate", struct{}{})
}

func (c *httpClient) userCall(ctx context.Context, method, path string, payload any) (User, error) {
	body, err := c.do(ctx, "users", method, path, nil, payload)
	if err != nil {
		return User{}, err
	}
	var u User
	if len(body) == 0 {
		return u, nil
	}
	if err := decodeObjectOrEnvelope(body, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func decodeListOrEnvelope(body []byte, out *[]User) error {
	if err := json.Unmarshal(body, out); err == nil {
		return nil
	}
	var env struct {
		Data []User `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	*out = env.Data
	return nil
}

func decodeObjectOrEnvelope(body []byte, out *User) error {
	var env struct {
		Data *User `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		*out = *env.Data
		return nil
	}
	return json.Unmarshal(body, out)
}
