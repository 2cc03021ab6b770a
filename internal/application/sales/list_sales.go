package sales

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

// ListAll todas las ventas (administrador).
func (uc *SaleUseCase) ListAll(ctx context.Context) ([]dto.SaleResponse, error) {
	return uc.list(ctx, repository.SaleFilter{})
}

// ListBySeller ventas registradas por el vendedor.
func (uc *SaleUseCase) ListBySeller(ctx context.Context, sellerID string) ([]dto.SaleResponse, error) {
	return uc.list(ctx, repository.SaleFilter{SellerID: sellerID})
}

// ListByCustomer compras del cliente.
func (uc *SaleUseCase) ListByCustomer(ctx context.Context, customerID string) ([]dto.SaleResponse, error) {
	return uc.list(ctx, repository.SaleFilter{CustomerID: customerID})
}

func (uc *SaleUseCase) list(ctx context.Context, f repository.SaleFilter) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:        s.ID,
		Fecha:     s.Fecha,
		Cliente:   dto.SaleUserRef{ID: s.CustomerID, Name: s.CustomerName},
		Vendedor:  dto.SaleUserRef{ID: s.SellerID, Name: s.SellerName},
		Productos: make([]dto.SaleLineResponse, 0, len(s.Items)),
		Total:     s.Total,
	}
	for _, it := range s.Items {
		out.Productos = append(out.Productos, dto.SaleLineResponse{
			ProductID:   it.ProductID,
			Descripcion: it.Descripcion,
			Cantidad:    it.Cantidad,
			Price:       it.Price,
		})
	}
	return out
}
