// Package memory implementa los repositorios del dominio sobre mapas en memoria.
// Respeta los mismos contratos que el adaptador postgres: (nil, nil) en lecturas sin fila
// y los mismos errores de dominio en duplicados y llaves foráneas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/urbanstyle-admin/internal/application/sales"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[string]entity.User
	products map[int64]entity.Product
	images   map[int64][]entity.ProductImage
	catalog  map[entity.CatalogResource][]entity.CatalogEntity
	sales    []entity.Sale
	seq      int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		products: make(map[int64]entity.Product),
		images:   make(map[int64][]entity.ProductImage),
		catalog:  make(map[entity.CatalogResource][]entity.CatalogEntity),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products repositorio de prendas.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Catalog repositorio de lookups.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// TxRunner ejecutor de ventas "transaccional".
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

var _ sales.SaleTxRunner = (*TxRunner)(nil)

// TxRunner serializa las ventas y descarta las insertadas si fn falla.
type TxRunner struct {
	s *Store
}

// RunSale ejecuta fn; ante error elimina las ventas agregadas durante fn.
func (t *TxRunner) RunSale(ctx context.Context, fn func(repository.ProductRepository, repository.SaleRepository) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.RLock()
	mark := len(t.s.sales)
	t.s.mu.RUnlock()

	if err := fn(t.s.Products(), t.s.Sales()); err != nil {
		t.s.mu.Lock()
		t.s.sales = t.s.sales[:mark]
		t.s.mu.Unlock()
		return err
	}
	return nil
}
