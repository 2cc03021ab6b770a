// Package client implementa las pantallas del panel de administración de UrbanStyle
// como componentes Go sobre la API REST: sesión, catálogo, lookups, formulario de
// producto, armado de ventas, reportes y administración de usuarios.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/urbanstyle-admin/pkg/config"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 32 << 20
)

// Client acceso HTTP a la API. Seguro para uso concurrente.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     *logger.Logger
}

// New crea un cliente contra cfg.APIBaseURL usando session para el header Authorization.
func New(cfg config.ClientConfig, session *Session, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	if session == nil {
		session, _ = NewSession(NewMemoryStore())
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log,
	}
}

// Session sesión asociada al cliente.
func (c *Client) Session() *Session { return c.session }

// send ejecuta la petición y devuelve status y cuerpo sin interpretar.
// Los fallos de transporte se envuelven con ErrConnection.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("client: construir petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("fallo de conexión")
		return 0, nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: leer respuesta: %w", ErrConnection, err)
	}
	return resp.StatusCode, data, nil
}

// do ejecuta la petición; en 2xx decodifica el JSON en out (si out != nil), si no devuelve *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	status, data, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		apiErr := newAPIError(status, data)
		c.log.Debug().Int("status", status).Str("method", method).Str("path", path).Str("code", apiErr.Code).Msg("respuesta de error")
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decodificar %s %s: %w", method, path, err)
	}
	return nil
}

// doJSON serializa in como cuerpo JSON.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: serializar cuerpo: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}
