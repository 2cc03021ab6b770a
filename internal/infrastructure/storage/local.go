// Package storage implementa ports.ImageStorage sobre disco local o Amazon S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/application/ports"
	"github.com/jhoicas/urbanstyle-admin/pkg/config"
)

var _ ports.ImageStorage = (*LocalStorage)(nil)

// LocalStorage guarda archivos bajo root y los expone bajo publicBaseURL (ruta /uploads del servidor).
type LocalStorage struct {
	root          string
	publicBaseURL string
}

// NewLocalStorage construye el almacenamiento en disco.
func NewLocalStorage(root, publicBaseURL string) *LocalStorage {
	return &LocalStorage{root: root, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Root directorio raíz servido como estático.
func (s *LocalStorage) Root() string { return s.root }

// Save escribe el archivo y devuelve su URL pública.
func (s *LocalStorage) Save(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar archivo: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete elimina el archivo de una URL generada por Save. URLs ajenas se ignoran.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicBaseURL+"/")
	if !ok {
		return nil
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: eliminar archivo: %w", err)
	}
	return nil
}

// path resuelve key dentro de root rechazando rutas que escapen de él.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("storage: key inválida %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// New elige el driver según la configuración.
func New(cfg config.StorageConfig) (ports.ImageStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL), nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
}
