package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (tablas sales y sale_items).
type SaleRepo struct {
	db Querier
}

// NewSaleRepository construye el adaptador; db puede ser el pool o una tx.
func NewSaleRepository(db Querier) *SaleRepo {
	return &SaleRepo{db: db}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción para ser atómico.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, fecha, customer_id, seller_id, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Fecha, s.CustomerID, s.SellerID, s.Total, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.db.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, descripcion, cantidad, price, cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, s.ID, it.ProductID, it.Descripcion, it.Cantidad, it.Price, it.Cost,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// List devuelve las ventas del filtro, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	b := psql.Select(
		"s.id", "s.fecha", "s.customer_id", "COALESCE(cu.name, '')",
		"s.seller_id", "COALESCE(se.name, '')", "s.total", "s.created_at",
	).
		From("sales s").
		LeftJoin("users cu ON cu.id = s.customer_id").
		LeftJoin("users se ON se.id = s.seller_id").
		OrderBy("s.fecha DESC")
	if f.SellerID != "" {
		b = b.Where(sq.Eq{"s.seller_id": f.SellerID})
	}
	if f.CustomerID != "" {
		b = b.Where(sq.Eq{"s.customer_id": f.CustomerID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list := []*entity.Sale{}
	byID := map[string]*entity.Sale{}
	ids := []string{}
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Fecha, &s.CustomerID, &s.CustomerName, &s.SellerID, &s.SellerName, &s.Total, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Items = []entity.SaleItem{}
		list = append(list, &s)
		byID[s.ID] = &s
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT id, sale_id, product_id, descripcion, cantidad, price, cost
		FROM sale_items WHERE sale_id::text = ANY($1)
		ORDER BY sale_id, descripcion`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.SaleItem
		if err := itemRows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Descripcion, &it.Cantidad, &it.Price, &it.Cost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if s := byID[it.SaleID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return list, itemRows.Err()
}
