package dto

import "github.com/shopspring/decimal"

// SalesFigures cifras de un grupo de ventas (día, vendedor o total).
type SalesFigures struct {
	Ventas    int             `json:"ventas"`
	Items     int             `json:"items"`
	Ingresos  decimal.Decimal `json:"ingresos"`
	Ganancias decimal.Decimal `json:"ganancias"`
}

// TopProductDTO producto del ranking de más vendidos.
type TopProductDTO struct {
	ProductID   int64           `json:"id_producto"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Ingresos    decimal.Decimal `json:"ingresos"`
	Ganancias   decimal.Decimal `json:"ganancias"`
}

// SalesReportDTO respuesta de GET /api/reportes/ventas.
type SalesReportDTO struct {
	TotalVentas          int                     `json:"totalVentas"`
	TotalItems           int                     `json:"totalItems"`
	Ingresos             decimal.Decimal         `json:"ingresos"`
	Ganancias            decimal.Decimal         `json:"ganancias"`
	VentasPorDia         map[string]SalesFigures `json:"ventasPorDia"`
	VentasPorUsuario     map[string]SalesFigures `json:"ventasPorUsuario"`
	ProductosMasVendidos []TopProductDTO         `json:"productosMasVendidos"`
}

// DailyTicket datos del ticket PDF de resumen diario.
type DailyTicket struct {
	StoreName string
	Fecha     string // YYYY-MM-DD
	Figures   SalesFigures
}
