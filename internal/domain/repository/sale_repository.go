package repository

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// SaleFilter restringe el listado a un vendedor o a un cliente. Vacío lista todo.
type SaleFilter struct {
	SellerID   string
	CustomerID string
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// Create inserta cabecera y líneas; asigna IDs y CreatedAt.
	Create(ctx context.Context, sale *entity.Sale) error
	// List devuelve las ventas más recientes primero, con nombres de cliente/vendedor y líneas.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
