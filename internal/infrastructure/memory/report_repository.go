package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// unknownSeller etiqueta de ventas cuyo vendedor ya no existe (COALESCE del SQL).
const unknownSeller = "Desconocido"

// ReportRepo agrega las ventas en memoria con las mismas fórmulas que el SQL.
type ReportRepo struct {
	s *Store
}

func (r *ReportRepo) GetTotals(_ context.Context) (repository.SalesTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return totals(r.s.sales, func(entity.Sale) bool { return true }), nil
}

func (r *ReportRepo) GetSalesByDay(_ context.Context) ([]repository.DaySalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	days := map[string]bool{}
	for _, s := range r.s.sales {
		days[s.Fecha.Format(time.DateOnly)] = true
	}
	out := make([]repository.DaySalesResult, 0, len(days))
	for day := range days {
		day := day
		out = append(out, repository.DaySalesResult{
			Fecha:       day,
			SalesTotals: totals(r.s.sales, func(s entity.Sale) bool { return s.Fecha.Format(time.DateOnly) == day }),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out, nil
}

// GetSalesByUser agrupa por nombre del vendedor como el GROUP BY del adaptador postgres:
// dos vendedores con el mismo nombre suman en una sola fila.
func (r *ReportRepo) GetSalesByUser(_ context.Context) ([]repository.UserSalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	names := map[string]bool{}
	for _, s := range r.s.sales {
		names[r.sellerName(s.SellerID)] = true
	}
	out := make([]repository.UserSalesResult, 0, len(names))
	for name := range names {
		out = append(out, repository.UserSalesResult{
			Usuario:     name,
			SalesTotals: totals(r.s.sales, func(s entity.Sale) bool { return r.sellerName(s.SellerID) == name }),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Usuario < out[j].Usuario })
	return out, nil
}

// sellerName nombre vigente del vendedor. Requiere mu tomado.
func (r *ReportRepo) sellerName(id string) string {
	if u, ok := r.s.users[id]; ok {
		return u.Name
	}
	return unknownSeller
}

func (r *ReportRepo) GetTopProducts(_ context.Context, limit int) ([]repository.ProductSalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byProduct := map[int64]*repository.ProductSalesResult{}
	for _, s := range r.s.sales {
		for _, it := range s.Items {
			p, ok := byProduct[it.ProductID]
			if !ok {
				p = &repository.ProductSalesResult{ProductID: it.ProductID, Descripcion: it.Descripcion}
				byProduct[it.ProductID] = p
			}
			qty := decimal.NewFromInt(int64(it.Cantidad))
			p.Cantidad += it.Cantidad
			p.Ingresos = p.Ingresos.Add(it.Price.Mul(qty))
			p.Ganancias = p.Ganancias.Add(it.Price.Sub(it.Cost).Mul(qty))
		}
	}
	out := make([]repository.ProductSalesResult, 0, len(byProduct))
	for _, p := range byProduct {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cantidad != out[j].Cantidad {
			return out[i].Cantidad > out[j].Cantidad
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) GetDayTotals(_ context.Context, day time.Time) (repository.SalesTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	end := day.Add(24 * time.Hour)
	return totals(r.s.sales, func(s entity.Sale) bool {
		return !s.Fecha.Before(day) && s.Fecha.Before(end)
	}), nil
}

func totals(list []entity.Sale, keep func(entity.Sale) bool) repository.SalesTotals {
	t := repository.SalesTotals{Ingresos: decimal.Zero, Ganancias: decimal.Zero}
	for _, s := range list {
		if !keep(s) {
			continue
		}
		t.Ventas++
		for _, it := range s.Items {
			qty := decimal.NewFromInt(int64(it.Cantidad))
			t.Items += it.Cantidad
			t.Ingresos = t.Ingresos.Add(it.Price.Mul(qty))
			t.Ganancias = t.Ganancias.Add(it.Price.Sub(it.Cost).Mul(qty))
		}
	}
	return t
}
