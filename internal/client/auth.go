package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// Login envía {email, password}. Una respuesta con token se persiste en la sesión;
// cualquier otra forma de respuesta es ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionData, error) {
	in := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	status, body, err := c.send(ctx, http.MethodPost, "/api/login", bytes.NewReader(b), "application/json")
	if err != nil {
		return nil, err
	}

	var out dto.LoginResponse
	if json.Unmarshal(body, &out) != nil || out.Token == "" {
		c.log.Debug().Int("status", status).Msg("login rechazado")
		return nil, ErrInvalidCredentials
	}

	data := SessionData{
		Token:  out.Token,
		UserID: out.User.ID,
		Name:   out.User.Name,
		Role:   out.User.Role,
	}
	if err := c.session.Set(data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RegisterForm campos de la pantalla de registro.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

// Register valida localmente (password de al menos 9 caracteres) y solo entonces
// crea la cuenta. El rol enviado siempre es cliente.
func (c *Client) Register(ctx context.Context, form RegisterForm) (*dto.UserResponse, error) {
	in := dto.RegisterRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     entity.RoleCliente,
	}
	if errs := validation.Struct(in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	var out dto.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout cierra la sesión local. No hay endpoint de logout: el token simplemente se descarta.
func (c *Client) Logout() error {
	return c.session.Logout()
}

// IsSessionExpired indica si err corresponde a un token rechazado por el servidor.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
