package sales

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción con los repos de productos y ventas.
// Si fn retorna error se hace rollback.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
