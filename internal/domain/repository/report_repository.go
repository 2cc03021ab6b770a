package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals cifras agregadas de un conjunto de ventas.
// Ganancias = Σ cantidad * (precio - costo) usando los snapshots de cada línea.
type SalesTotals struct {
	Ventas    int
	Items     int
	Ingresos  decimal.Decimal
	Ganancias decimal.Decimal
}

// DaySalesResult totales de un día (fecha en formato YYYY-MM-DD).
type DaySalesResult struct {
	Fecha string
	SalesTotals
}

// UserSalesResult totales por vendedor.
type UserSalesResult struct {
	Usuario string
	SalesTotals
}

// ProductSalesResult acumulado de un producto vendido.
type ProductSalesResult struct {
	ProductID   int64
	Descripcion string
	Cantidad    int
	Ingresos    decimal.Decimal
	Ganancias   decimal.Decimal
}

// ReportRepository consultas de lectura para el reporte de ventas. No modifican datos.
type ReportRepository interface {
	GetTotals(ctx context.Context) (SalesTotals, error)
	GetSalesByDay(ctx context.Context) ([]DaySalesResult, error)
	GetSalesByUser(ctx context.Context) ([]UserSalesResult, error)
	// GetTopProducts devuelve los productos con más unidades vendidas, descendente.
	GetTopProducts(ctx context.Context, limit int) ([]ProductSalesResult, error)
	// GetDayTotals totales de las ventas con fecha en [day, day+24h).
	GetDayTotals(ctx context.Context, day time.Time) (SalesTotals, error)
}
