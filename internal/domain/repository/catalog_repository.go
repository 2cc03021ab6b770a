package repository

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// CatalogRepository persistencia de las tablas de lookup (tipos, marcas, tallas, colores).
type CatalogRepository interface {
	List(ctx context.Context, resource entity.CatalogResource) ([]*entity.CatalogEntity, error)
	// Create inserta y asigna ID. Devuelve domain.ErrDuplicate si el nombre ya existe.
	Create(ctx context.Context, resource entity.CatalogResource, e *entity.CatalogEntity) error
	Exists(ctx context.Context, resource entity.CatalogResource, id int64) (bool, error)
}
