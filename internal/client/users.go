package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// ListUsers todos los usuarios (admin).
func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := c.get(ctx, "/api/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser alta de usuario con rol explícito. Valida localmente antes de enviar.
func (c *Client) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if errs := validation.Struct(in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	var out dto.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser edita un usuario. Password vacío conserva el actual.
func (c *Client) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if errs := validation.Struct(in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	var out dto.UserResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, "", nil)
}
