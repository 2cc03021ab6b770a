package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
)

// Errores del cliente de administración.
var (
	ErrConnection         = errors.New("error al conectar con el servidor")
	ErrUnauthorized       = errors.New("sesión no autorizada")
	ErrForbidden          = errors.New("acceso denegado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	ErrPageOutOfRange     = errors.New("página fuera de rango")
	ErrStaleResponse      = errors.New("respuesta descartada por una petición más reciente")
)

// ValidationError errores por campo detectados antes de enviar la petición.
// Es el mismo tipo que usa el backend, así errors.Is(err, domain.ErrInvalidInput) funciona igual en ambos lados.
type ValidationError = domain.ValidationError

// APIError respuesta no 2xx del backend. Body conserva el cuerpo tal cual llegó.
type APIError struct {
	Status  int
	Body    []byte
	Code    string
	Message string
	Errors  map[string]string
}

// newAPIError interpreta el cuerpo como dto.ErrorResponse si puede.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}
	var payload dto.ErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Code
		e.Message = payload.Message
		e.Errors = payload.Errors
	}
	return e
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api: %d %s", e.Status, msg)
}

// Unwrap permite errors.Is contra los sentinelas según el status.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return domain.ErrInvalidInput
	}
	return nil
}

// Detail texto del servidor para mostrar: el miembro "errors" si existe, si no el cuerpo completo.
func (e *APIError) Detail() string {
	if len(e.Errors) > 0 {
		b, err := json.Marshal(e.Errors)
		if err == nil {
			return string(b)
		}
	}
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		return body
	}
	return http.StatusText(e.Status)
}

// UserMessage traduce un error a un texto apto para la pantalla.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrConnection):
		return "Error al conectar con el servidor"
	case errors.Is(err, ErrInvalidCredentials):
		return "Credenciales incorrectas"
	case errors.Is(err, ErrPageOutOfRange):
		return "Página fuera de rango"
	case errors.As(err, &verr):
		return "Revisa los campos: " + joinFields(verr.Fields)
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized {
			return "Tu sesión expiró, inicia sesión de nuevo"
		}
		if apiErr.Status == http.StatusForbidden {
			return "No tienes permiso para esta acción"
		}
		if len(apiErr.Errors) > 0 {
			return "Error: " + joinFields(apiErr.Errors)
		}
		if apiErr.Message != "" {
			return "Error: " + apiErr.Message
		}
		return "Error: " + apiErr.Detail()
	}
	return "Error: " + err.Error()
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}
	return strings.Join(parts, "; ")
}
