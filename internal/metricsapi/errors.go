package metricsapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps transport failures: DNS, refused connections, timeouts.
var ErrUnreachable = errors.New("metrics api unreachable")

// ErrNoChanges is returned by UpdateUser when the update carries no field.
var ErrNoChanges = errors.New("no fields to update")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool { return statusCode(err) == http.StatusNotFound }

// IsConflict reports whether err is a 409 answer.
func IsConflict(err error) bool { return statusCode(err) == http.StatusConflict }

// User-facing messages for API failures.
const (
	MsgUnreachable  = "No se pudo conectar con la API."
	MsgUserNotFound = "Usuario no encontrado."
	MsgUserConflict = "El username ya existe."
	MsgRequestError = "Error al procesar la solicitud."
	MsgNoChanges    = "Ingresa al menos un campo para modificar."
)

// FetchMessage maps a metrics query failure to the notice shown in a view.
func FetchMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnreachable) {
		return MsgUnreachable
	}
	return MsgRequestError
}

// UserMessage maps a user administration failure to the text shown to admins.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnreachable):
		return MsgUnreachable
	case errors.Is(err, ErrNoChanges):
		return MsgNoChanges
	case IsNotFound(err):
		return MsgUserNotFound
	case IsConflict(err):
		return MsgUserConflict
	}
	return MsgRequestError
}
