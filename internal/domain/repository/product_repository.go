package repository

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// ProductFilter filtros opcionales del listado de productos. Cero significa "sin filtro".
type ProductFilter struct {
	TypeID  int64
	BrandID int64
	SizeID  int64
	ColorID int64
	Gender  string
	Query   string // búsqueda por nombre (ILIKE)
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve el producto con relaciones e imágenes; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// List devuelve una página y el total de filas que cumplen el filtro.
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	// AddImages agrega imágenes al final. Si alguna viene marcada primaria, desmarca las existentes.
	AddImages(ctx context.Context, productID int64, images []entity.ProductImage) error
	Delete(ctx context.Context, id int64) error
}
