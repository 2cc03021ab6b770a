package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lookups en memoria; nombres únicos por recurso sin distinguir mayúsculas.
type CatalogRepo struct {
	s *Store
}

func (r *CatalogRepo) List(_ context.Context, res entity.CatalogResource) ([]*entity.CatalogEntity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.CatalogEntity, 0, len(r.s.catalog[res]))
	for _, e := range r.s.catalog[res] {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) Create(_ context.Context, res entity.CatalogResource, e *entity.CatalogEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.catalog[res] {
		if strings.EqualFold(existing.Name, e.Name) {
			return domain.ErrDuplicate
		}
	}
	e.ID = r.s.nextID()
	r.s.catalog[res] = append(r.s.catalog[res], *e)
	return nil
}

func (r *CatalogRepo) Exists(_ context.Context, res entity.CatalogResource, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.lookup(res, id)
	return ok, nil
}

// lookup requiere mu tomado.
func (s *Store) lookup(res entity.CatalogResource, id int64) (entity.CatalogEntity, bool) {
	for _, e := range s.catalog[res] {
		if e.ID == id {
			return e, true
		}
	}
	return entity.CatalogEntity{}, false
}
