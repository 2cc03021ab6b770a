package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest cuerpo de POST /api/ventas.
// Total es el calculado por el cliente; el servidor lo recalcula y solo lo usa para detectar diferencias.
type CreateSaleRequest struct {
	ClienteID string            `json:"id_cliente" validate:"required"`
	Items     []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Total     decimal.Decimal   `json:"total"`
}

// SaleItemRequest línea de la venta enviada por el cliente.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// SaleUserRef referencia embebida a cliente o vendedor.
type SaleUserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SaleLineResponse línea de una venta registrada.
type SaleLineResponse struct {
	ProductID   int64           `json:"id_producto"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Price       decimal.Decimal `json:"price"`
}

// SaleResponse venta con cliente y vendedor embebidos.
type SaleResponse struct {
	ID        string             `json:"id"`
	Fecha     time.Time          `json:"fecha"`
	Cliente   SaleUserRef        `json:"id_cliente"`
	Vendedor  SaleUserRef        `json:"id_vendedor"`
	Productos []SaleLineResponse `json:"productos"`
	Total     decimal.Decimal    `json:"total"`
}

// ComputedTotal recalcula Σ price * cantidad de las líneas.
func (s SaleResponse) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Productos {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Cantidad))))
	}
	return total
}
