package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta registrada por un vendedor para un cliente.
// Total se recalcula en el servidor desde los precios vigentes de cada producto.
type Sale struct {
	ID           string
	Fecha        time.Time
	CustomerID   string
	CustomerName string
	SellerID     string
	SellerName   string
	Total        decimal.Decimal
	Items        []SaleItem
	CreatedAt    time.Time
}

// SaleItem línea de venta. Price y Cost son snapshots del producto al momento de vender.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   int64
	Descripcion string
	Cantidad    int
	Price       decimal.Decimal
	Cost        decimal.Decimal
}

// Subtotal devuelve Price * Cantidad.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// ComputeTotal suma los subtotales de las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
