package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// SaleUseCase registra ventas y las lista según el rol de quien consulta.
type SaleUseCase struct {
	txRunner SaleTxRunner
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner SaleTxRunner, userRepo repository.UserRepository, saleRepo repository.SaleRepository, log *logger.Logger) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{txRunner: txRunner, userRepo: userRepo, saleRepo: saleRepo, log: log}
}

// CreateSale registra la venta del vendedor sellerID.
// Precio y costo de cada línea se toman del producto dentro de la transacción; el total enviado
// por el cliente solo se compara con el recalculado.
func (uc *SaleUseCase) CreateSale(ctx context.Context, sellerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	in.ClienteID = strings.TrimSpace(in.ClienteID)
	if errs := validation.Struct(in); errs != nil {
		return nil, &domain.ValidationError{Fields: errs}
	}

	customer, err := uc.userRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("cliente %s: %w", in.ClienteID, domain.ErrUserNotFound)
	}
	if customer.Role != entity.RoleCliente {
		return nil, domain.NewValidationError("id_cliente", "el usuario no es cliente")
	}
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		Fecha:        now,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		SellerID:     seller.ID,
		SellerName:   seller.Name,
		CreatedAt:    now,
	}

	err = uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		sale.Items = sale.Items[:0]
		for _, item := range in.Items {
			product, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %d: %w", item.ProductID, domain.ErrProductNotFound)
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   product.ID,
				Descripcion: product.Name,
				Cantidad:    item.Quantity,
				Price:       product.SalePrice,
				Cost:        product.PurchasePrice,
			})
		}
		sale.Total = sale.ComputeTotal()
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	if !in.Total.IsZero() && !in.Total.Equal(sale.Total) {
		uc.log.Warn().
			Str("sale_id", sale.ID).
			Str("client_total", in.Total.String()).
			Str("server_total", sale.Total.String()).
			Msg("total enviado por el cliente difiere del recalculado")
	}
	return toSaleResponse(sale), nil
}
