package client

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
)

// SaleRow venta para las tablas de listados; Total se recalcula de las líneas.
type SaleRow struct {
	dto.SaleResponse
	Items int
}

func (c *Client) listSales(ctx context.Context, path string) ([]SaleRow, error) {
	var out []dto.SaleResponse
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	rows := make([]SaleRow, 0, len(out))
	for _, s := range out {
		row := SaleRow{SaleResponse: s}
		row.Total = s.ComputedTotal()
		for _, p := range s.Productos {
			row.Items += p.Cantidad
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListAllSales todas las ventas (admin).
func (c *Client) ListAllSales(ctx context.Context) ([]SaleRow, error) {
	return c.listSales(ctx, "/api/ventas/all")
}

// ListMySales ventas registradas por el vendedor de la sesión.
func (c *Client) ListMySales(ctx context.Context) ([]SaleRow, error) {
	return c.listSales(ctx, "/api/ventas")
}

// ListMyPurchases compras del cliente de la sesión.
func (c *Client) ListMyPurchases(ctx context.Context) ([]SaleRow, error) {
	return c.listSales(ctx, "/api/ventas/mis-compras")
}
