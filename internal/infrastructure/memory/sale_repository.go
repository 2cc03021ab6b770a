package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s *Store
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sale
	cp.Items = append([]entity.SaleItem{}, sale.Items...)
	r.s.sales = append(r.s.sales, cp)
	return nil
}

// List más recientes primero; los nombres se resuelven contra los usuarios actuales.
func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Sale{}
	for _, s := range r.s.sales {
		if f.SellerID != "" && s.SellerID != f.SellerID {
			continue
		}
		if f.CustomerID != "" && s.CustomerID != f.CustomerID {
			continue
		}
		cp := s
		cp.Items = append([]entity.SaleItem{}, s.Items...)
		if u, ok := r.s.users[s.CustomerID]; ok {
			cp.CustomerName = u.Name
		}
		if u, ok := r.s.users[s.SellerID]; ok {
			cp.SellerName = u.Name
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}
