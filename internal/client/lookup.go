package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// DefaultHexCode valor inicial del selector de color al agregar.
const DefaultHexCode = "#000000"

// LookupManager acceso a /api/catalog/{resource}.
type LookupManager struct {
	c *Client
}

func NewLookupManager(c *Client) *LookupManager { return &LookupManager{c: c} }

// List entradas de resource en el orden del servidor.
func (m *LookupManager) List(ctx context.Context, resource entity.CatalogResource) ([]dto.CatalogEntityResponse, error) {
	var out []dto.CatalogEntityResponse
	if err := m.c.get(ctx, "/api/catalog/"+string(resource), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create da de alta una entrada. hex_code solo se envía para colores.
func (m *LookupManager) Create(ctx context.Context, resource entity.CatalogResource, in dto.CreateCatalogEntryRequest) (*dto.CatalogEntityResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if !resource.HasHexCode() {
		in.HexCode = ""
	}
	var out dto.CatalogEntityResponse
	if err := m.c.doJSON(ctx, http.MethodPost, "/api/catalog/"+string(resource), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookups las cuatro listas que usa el formulario de producto.
type Lookups struct {
	Types  []dto.CatalogEntityResponse
	Brands []dto.CatalogEntityResponse
	Sizes  []dto.CatalogEntityResponse
	Colors []dto.CatalogEntityResponse
}

// LoadAll pide las cuatro listas en paralelo. Falla si falla cualquiera.
func (m *LookupManager) LoadAll(ctx context.Context) (*Lookups, error) {
	var out Lookups
	g, gctx := errgroup.WithContext(ctx)
	targets := map[entity.CatalogResource]*[]dto.CatalogEntityResponse{
		entity.ResourceTypes:  &out.Types,
		entity.ResourceBrands: &out.Brands,
		entity.ResourceSizes:  &out.Sizes,
		entity.ResourceColors: &out.Colors,
	}
	for res, dst := range targets {
		g.Go(func() error {
			list, err := m.List(gctx, res)
			if err != nil {
				return err
			}
			*dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectMode estado del CatalogSelect.
type SelectMode int

const (
	ModeSelecting SelectMode = iota
	ModeAdding
)

// CatalogSelect selector de una entrada de lookup con alta en línea.
// Alterna entre seleccionar de la lista y capturar una entrada nueva.
type CatalogSelect struct {
	mgr      *LookupManager
	resource entity.CatalogResource

	mu       sync.Mutex
	mode     SelectMode
	options  []dto.CatalogEntityResponse
	selected int64
	newName  string
	newHex   string
	lastErr  error
}

func NewCatalogSelect(mgr *LookupManager, resource entity.CatalogResource) *CatalogSelect {
	return &CatalogSelect{mgr: mgr, resource: resource, newHex: DefaultHexCode}
}

// Load carga las opciones. Si falla la lista queda vacía.
func (s *CatalogSelect) Load(ctx context.Context) error {
	list, err := s.mgr.List(ctx, s.resource)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.options = nil
		return err
	}
	s.options = list
	return nil
}

func (s *CatalogSelect) Resource() entity.CatalogResource { return s.resource }

func (s *CatalogSelect) Mode() SelectMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *CatalogSelect) Options() []dto.CatalogEntityResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.CatalogEntityResponse(nil), s.options...)
}

// Selected id elegido; 0 si ninguno.
func (s *CatalogSelect) Selected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *CatalogSelect) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Clear quita la selección (tras guardar o al editar un producto).
func (s *CatalogSelect) Clear() { s.Select(0) }

// StartAdd pasa a modo alta con el borrador limpio.
func (s *CatalogSelect) StartAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeAdding
	s.newName = ""
	s.newHex = DefaultHexCode
	s.lastErr = nil
}

// SetDraft captura nombre y color de la entrada nueva. hex se ignora fuera de colores.
func (s *CatalogSelect) SetDraft(name, hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newName = name
	if hex != "" {
		s.newHex = hex
	}
}

func (s *CatalogSelect) CancelAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeSelecting
	s.newName = ""
}

// LastError error de la última alta fallida.
func (s *CatalogSelect) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Save crea la entrada capturada. Con nombre vacío no hace nada y devuelve 0.
// En éxito recarga la lista completa, selecciona el id creado y vuelve a modo selección.
// Si falla se queda en modo alta y el error conserva la respuesta del servidor.
func (s *CatalogSelect) Save(ctx context.Context) (int64, error) {
	s.mu.Lock()
	name := strings.TrimSpace(s.newName)
	hex := s.newHex
	s.mu.Unlock()
	if name == "" {
		return 0, nil
	}

	created, err := s.mgr.Create(ctx, s.resource, dto.CreateCatalogEntryRequest{Name: name, HexCode: hex})
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return 0, err
	}

	fresh, err := s.mgr.List(ctx, s.resource)
	if err != nil {
		s.mgr.c.log.Warn().Err(err).Str("resource", string(s.resource)).Int64("id", created.ID).
			Msg("alta guardada pero no se pudo recargar la lista")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Las opciones solo vienen del servidor; si la recarga falla quedan las anteriores
	// hasta el siguiente Load y el error queda en LastError.
	if err == nil {
		s.options = fresh
	}
	s.mode = ModeSelecting
	s.newName = ""
	s.selected = created.ID
	s.lastErr = err
	return created.ID, nil
}
