package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productColumns columnas del producto con los nombres de sus relaciones (LEFT JOIN).
var productColumns = []string{
	"c.id", "c.name", "c.type_id", "c.brand_id", "c.size_id", "c.color_id", "c.gender",
	"c.purchase_price", "c.sale_price", "c.created_at", "c.updated_at",
	"COALESCE(t.name, '')", "COALESCE(b.name, '')", "COALESCE(s.name, '')",
	"COALESCE(co.name, '')", "COALESCE(co.hex_code, '')",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (tabla clothes).
type ProductRepo struct {
	db Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(db Querier) *ProductRepo {
	return &ProductRepo{db: db}
}

func selectProducts() sq.SelectBuilder {
	return psql.Select(productColumns...).
		From("clothes c").
		LeftJoin("clothing_types t ON t.id = c.type_id").
		LeftJoin("brands b ON b.id = c.brand_id").
		LeftJoin("sizes s ON s.id = c.size_id").
		LeftJoin("colors co ON co.id = c.color_id")
}

func productWhere(f repository.ProductFilter) sq.And {
	where := sq.And{}
	if f.TypeID > 0 {
		where = append(where, sq.Eq{"c.type_id": f.TypeID})
	}
	if f.BrandID > 0 {
		where = append(where, sq.Eq{"c.brand_id": f.BrandID})
	}
	if f.SizeID > 0 {
		where = append(where, sq.Eq{"c.size_id": f.SizeID})
	}
	if f.ColorID > 0 {
		where = append(where, sq.Eq{"c.color_id": f.ColorID})
	}
	if f.Gender != "" {
		where = append(where, sq.Eq{"c.gender": f.Gender})
	}
	if f.Query != "" {
		where = append(where, sq.ILike{"c.name": "%" + f.Query + "%"})
	}
	return where
}

// Create inserta el producto y asigna ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO clothes (name, type_id, brand_id, size_id, color_id, gender, purchase_price, sale_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		p.Name, p.TypeID, p.BrandID, p.SizeID, p.ColorID, p.Gender,
		p.PurchasePrice, p.SalePrice, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto con relaciones e imágenes.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query, args, err := selectProducts().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if err := r.loadImages(ctx, list); err != nil {
		return nil, err
	}
	return list[0], nil
}

// Update actualiza los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE clothes SET name = $2, type_id = $3, brand_id = $4, size_id = $5, color_id = $6,
			gender = $7, purchase_price = $8, sale_price = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.TypeID, p.BrandID, p.SizeID, p.ColorID, p.Gender,
		p.PurchasePrice, p.SalePrice, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List devuelve una página de productos (más recientes primero) y el total del filtro.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where := productWhere(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("clothes c").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return []*entity.Product{}, 0, nil
	}

	query, args, err := selectProducts().
		Where(where).
		OrderBy("c.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadImages(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AddImages agrega imágenes al final de las existentes.
func (r *ProductRepo) AddImages(ctx context.Context, productID int64, images []entity.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for _, img := range images {
		if img.IsPrimary {
			if _, err := r.db.Exec(ctx, `UPDATE clothing_images SET is_primary = false WHERE clothing_id = $1`, productID); err != nil {
				return fmt.Errorf("reset primary image: %w", err)
			}
			break
		}
	}
	var next int
	if err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM clothing_images WHERE clothing_id = $1`, productID,
	).Scan(&next); err != nil {
		return fmt.Errorf("next image position: %w", err)
	}
	for i := range images {
		images[i].ProductID = productID
		images[i].Position = next + i
		err := r.db.QueryRow(ctx, `
			INSERT INTO clothing_images (clothing_id, url, is_primary, position)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			productID, images[i].URL, images[i].IsPrimary, images[i].Position,
		).Scan(&images[i].ID)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

// Delete elimina el producto; sus imágenes se borran en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clothes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) loadImages(ctx context.Context, list []*entity.Product) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	byID := make(map[int64]*entity.Product, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Images = []entity.ProductImage{}
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, clothing_id, url, is_primary, position
		FROM clothing_images WHERE clothing_id = ANY($1)
		ORDER BY clothing_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.IsPrimary, &img.Position); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if p := byID[img.ProductID]; p != nil {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		var (
			p                                        entity.Product
			typeName, brandName, sizeName, colorName string
			hex                                      string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.TypeID, &p.BrandID, &p.SizeID, &p.ColorID, &p.Gender,
			&p.PurchasePrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt,
			&typeName, &brandName, &sizeName, &colorName, &hex,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Type = relation(p.TypeID, typeName, "")
		p.Brand = relation(p.BrandID, brandName, "")
		p.Size = relation(p.SizeID, sizeName, "")
		p.Color = relation(p.ColorID, colorName, hex)
		list = append(list, &p)
	}
	return list, rows.Err()
}

func relation(id int64, name, hex string) *entity.CatalogEntity {
	if name == "" {
		return nil
	}
	return &entity.CatalogEntity{ID: id, Name: name, HexCode: hex}
}
