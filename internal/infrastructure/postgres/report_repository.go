package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas sobre sales y sale_items (read-only).
type ReportRepo struct {
	db Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(db Querier) *ReportRepo {
	return &ReportRepo{db: db}
}

// aggregates columnas comunes: ventas, items, ingresos, ganancias.
const aggregates = `
	COUNT(DISTINCT s.id),
	COALESCE(SUM(i.cantidad), 0),
	COALESCE(SUM(i.cantidad * i.price), 0),
	COALESCE(SUM(i.cantidad * (i.price - i.cost)), 0)`

// GetTotals totales globales.
func (r *ReportRepo) GetTotals(ctx context.Context) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.db.QueryRow(ctx, `SELECT `+aggregates+`
		FROM sales s LEFT JOIN sale_items i ON i.sale_id = s.id`,
	).Scan(&t.Ventas, &t.Items, &t.Ingresos, &t.Ganancias)
	if err != nil {
		return t, fmt.Errorf("report totals: %w", err)
	}
	return t, nil
}

// GetSalesByDay totales agrupados por fecha (YYYY-MM-DD), ascendente.
func (r *ReportRepo) GetSalesByDay(ctx context.Context) ([]repository.DaySalesResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(s.fecha, 'YYYY-MM-DD') AS dia, `+aggregates+`
		FROM sales s LEFT JOIN sale_items i ON i.sale_id = s.id
		GROUP BY dia ORDER BY dia`)
	if err != nil {
		return nil, fmt.Errorf("report by day: %w", err)
	}
	defer rows.Close()
	var out []repository.DaySalesResult
	for rows.Next() {
		var d repository.DaySalesResult
		if err := rows.Scan(&d.Fecha, &d.Ventas, &d.Items, &d.Ingresos, &d.Ganancias); err != nil {
			return nil, fmt.Errorf("scan report by day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetSalesByUser totales agrupados por vendedor.
func (r *ReportRepo) GetSalesByUser(ctx context.Context) ([]repository.UserSalesResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(u.name, 'Desconocido') AS usuario, `+aggregates+`
		FROM sales s
		LEFT JOIN sale_items i ON i.sale_id = s.id
		LEFT JOIN users u ON u.id = s.seller_id
		GROUP BY usuario ORDER BY usuario`)
	if err != nil {
		return nil, fmt.Errorf("report by user: %w", err)
	}
	defer rows.Close()
	var out []repository.UserSalesResult
	for rows.Next() {
		var u repository.UserSalesResult
		if err := rows.Scan(&u.Usuario, &u.Ventas, &u.Items, &u.Ingresos, &u.Ganancias); err != nil {
			return nil, fmt.Errorf("scan report by user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetTopProducts productos con más unidades vendidas.
func (r *ReportRepo) GetTopProducts(ctx context.Context, limit int) ([]repository.ProductSalesResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.product_id, MAX(i.descripcion),
			SUM(i.cantidad),
			SUM(i.cantidad * i.price),
			SUM(i.cantidad * (i.price - i.cost))
		FROM sale_items i
		GROUP BY i.product_id
		ORDER BY SUM(i.cantidad) DESC, i.product_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("report top products: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductSalesResult
	for rows.Next() {
		var p repository.ProductSalesResult
		if err := rows.Scan(&p.ProductID, &p.Descripcion, &p.Cantidad, &p.Ingresos, &p.Ganancias); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetDayTotals totales de las ventas del día.
func (r *ReportRepo) GetDayTotals(ctx context.Context, day time.Time) (repository.SalesTotals, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var t repository.SalesTotals
	err := r.db.QueryRow(ctx, `SELECT `+aggregates+`
		FROM sales s LEFT JOIN sale_items i ON i.sale_id = s.id
		WHERE s.fecha >= $1 AND s.fecha < $2`, start, end,
	).Scan(&t.Ventas, &t.Items, &t.Ingresos, &t.Ganancias)
	if err != nil {
		return t, fmt.Errorf("report day totals: %w", err)
	}
	return t, nil
}
