package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionData token bearer y datos del usuario autenticado.
type SessionData struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// TokenStore persistencia de la sesión entre ejecuciones.
type TokenStore interface {
	Load() (*SessionData, error)
	Save(SessionData) error
	Clear() error
}

// FileStore guarda la sesión como JSON con permisos 0600.
type FileStore struct {
	Path string
}

// NewFileStore crea un store sobre path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// Load devuelve (nil, nil) si no hay sesión guardada.
func (s *FileStore) Load() (*SessionData, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: leer %s: %w", s.Path, err)
	}
	var data SessionData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("session: archivo corrupto %s: %w", s.Path, err)
	}
	if data.Token == "" {
		return nil, nil
	}
	return &data, nil
}

func (s *FileStore) Save(data SessionData) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return fmt.Errorf("session: escribir %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: borrar %s: %w", s.Path, err)
	}
	return nil
}

// MemoryStore store volátil para tests y sesiones de una sola ejecución.
type MemoryStore struct {
	mu   sync.Mutex
	data *SessionData
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (*SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	cp := *s.data
	return &cp, nil
}

func (s *MemoryStore) Save(data SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = &data
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Session sesión actual. Se pasa explícitamente a cada componente que hace llamadas.
type Session struct {
	mu    sync.RWMutex
	store TokenStore
	data  SessionData
}

// NewSession carga la sesión persistida en store, si la hay.
func NewSession(store TokenStore) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Session{store: store}
	data, err := store.Load()
	if err != nil {
		return s, err
	}
	if data != nil {
		s.data = *data
	}
	return s, nil
}

// Set reemplaza la sesión y la persiste.
func (s *Session) Set(data SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return s.store.Save(data)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// User datos del usuario autenticado (vacío si no hay sesión).
func (s *Session) User() SessionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Session) IsAuthenticated() bool { return s.Token() != "" }

// Logout borra la sesión en memoria y en el store antes de retornar.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = SessionData{}
	return s.store.Clear()
}
