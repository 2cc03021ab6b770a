package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository. Las cuatro tablas comparten (id, name);
// colors agrega hex_code.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepository construye el adaptador de persistencia para los lookups.
func NewCatalogRepository(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// List devuelve las entradas del recurso ordenadas por nombre.
func (r *CatalogRepo) List(ctx context.Context, resource entity.CatalogResource) ([]*entity.CatalogEntity, error) {
	cols := []string{"id", "name"}
	if resource.HasHexCode() {
		cols = append(cols, "COALESCE(hex_code, '')")
	}
	query, args, err := psql.Select(cols...).From(resource.Table()).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	defer rows.Close()
	list := []*entity.CatalogEntity{}
	for rows.Next() {
		var e entity.CatalogEntity
		dest := []any{&e.ID, &e.Name}
		if resource.HasHexCode() {
			dest = append(dest, &e.HexCode)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", resource, err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Create inserta la entrada y asigna ID.
func (r *CatalogRepo) Create(ctx context.Context, resource entity.CatalogResource, e *entity.CatalogEntity) error {
	b := psql.Insert(resource.Table()).Columns("name").Values(e.Name)
	if resource.HasHexCode() {
		b = psql.Insert(resource.Table()).Columns("name", "hex_code").Values(e.Name, e.HexCode)
	}
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build catalog insert: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&e.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", resource, err)
	}
	return nil
}

// Exists indica si hay una entrada con ese ID.
func (r *CatalogRepo) Exists(ctx context.Context, resource entity.CatalogResource, id int64) (bool, error) {
	var ok bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, resource.Table())
	if err := r.db.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", resource, err)
	}
	return ok, nil
}
