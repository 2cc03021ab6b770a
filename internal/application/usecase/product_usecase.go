package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/ports"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// ProductUseCase casos de uso CRUD del catálogo de prendas, incluidas sus imágenes.
type ProductUseCase struct {
	repo          repository.ProductRepository
	catalog       repository.CatalogRepository
	storage       ports.ImageStorage
	maxImageBytes int64
	log           *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	catalog repository.CatalogRepository,
	storage ports.ImageStorage,
	maxImageBytes int64,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, catalog: catalog, storage: storage, maxImageBytes: maxImageBytes, log: log}
}

// List devuelve una página del catálogo. La página pedida se acota a [1, last_page].
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductPageResponse, error) {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = dto.DefaultPerPage
	}
	if perPage > dto.MaxPerPage {
		perPage = dto.MaxPerPage
	}
	filter := repository.ProductFilter{
		TypeID:  q.TypeID,
		BrandID: q.BrandID,
		SizeID:  q.SizeID,
		ColorID: q.ColorID,
		Gender:  strings.TrimSpace(q.Gender),
		Query:   strings.TrimSpace(q.Q),
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	list, total, err := uc.repo.List(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	meta := dto.NewPageMeta(page, perPage, total)
	if meta.CurrentPage != page {
		// página fuera de rango: se sirve la última
		list, total, err = uc.repo.List(ctx, filter, perPage, meta.Offset())
		if err != nil {
			return nil, err
		}
		meta = dto.NewPageMeta(meta.CurrentPage, perPage, total)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductPageResponse{Data: items, PageMeta: meta}, nil
}

// GetByID obtiene un producto por ID. ErrProductNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// Create crea un producto y guarda sus imágenes. Sin primary_index la primera imagen queda como primaria.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductFormRequest, uploads []ports.ImageUpload) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate(ctx, in, uploads); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		Name:          in.Name,
		TypeID:        in.TypeID,
		BrandID:       in.BrandID,
		SizeID:        in.SizeID,
		ColorID:       in.ColorID,
		Gender:        in.Gender,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.attachImages(ctx, p.ID, uploads, primaryIndex(in.PrimaryIndex, len(uploads), false)); err != nil {
		// Sin imágenes no queda el producto: reintentar el formulario no debe duplicarlo.
		if derr := uc.repo.Delete(ctx, p.ID); derr != nil {
			uc.log.Error().Err(derr).Int64("product_id", p.ID).Msg("no se pudo revertir el producto")
		}
		return nil, err
	}
	return uc.GetByID(ctx, p.ID)
}

// Update reemplaza los campos del producto y agrega las imágenes nuevas.
// primary_index se interpreta sobre las imágenes subidas en esta petición.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductFormRequest, uploads []ports.ImageUpload) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if err := uc.validate(ctx, in, uploads); err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.TypeID = in.TypeID
	p.BrandID = in.BrandID
	p.SizeID = in.SizeID
	p.ColorID = in.ColorID
	p.Gender = in.Gender
	p.PurchasePrice = in.PurchasePrice
	p.SalePrice = in.SalePrice
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.attachImages(ctx, p.ID, uploads, primaryIndex(in.PrimaryIndex, len(uploads), len(p.Images) > 0)); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, p.ID)
}

// Delete elimina el producto y los archivos de sus imágenes.
// Un fallo al borrar archivos no revierte la eliminación; solo se registra.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range p.Images {
		if err := uc.storage.Delete(ctx, img.URL); err != nil {
			uc.log.Warn().Err(err).Int64("product_id", id).Str("url", img.URL).Msg("no se pudo eliminar imagen")
		}
	}
	return nil
}

func (uc *ProductUseCase) validate(ctx context.Context, in dto.ProductFormRequest, uploads []ports.ImageUpload) error {
	fields := validation.Struct(in)
	if fields == nil {
		fields = map[string]string{}
	}
	if in.PurchasePrice.IsNegative() {
		fields["purchase_price"] = "debe ser mayor o igual a 0"
	}
	if in.SalePrice.IsNegative() {
		fields["sale_price"] = "debe ser mayor o igual a 0"
	}
	refs := []struct {
		field    string
		resource entity.CatalogResource
		id       int64
	}{
		{"type_id", entity.ResourceTypes, in.TypeID},
		{"brand_id", entity.ResourceBrands, in.BrandID},
		{"size_id", entity.ResourceSizes, in.SizeID},
		{"color_id", entity.ResourceColors, in.ColorID},
	}
	for _, r := range refs {
		if _, bad := fields[r.field]; bad || r.id <= 0 {
			continue
		}
		ok, err := uc.catalog.Exists(ctx, r.resource, r.id)
		if err != nil {
			return err
		}
		if !ok {
			fields[r.field] = "no existe"
		}
	}
	for i, up := range uploads {
		key := fmt.Sprintf("images.%d", i)
		if !strings.HasPrefix(up.ContentType, "image/") {
			fields[key] = "debe ser una imagen"
		} else if uc.maxImageBytes > 0 && up.Size > uc.maxImageBytes {
			fields[key] = fmt.Sprintf("excede el tamaño máximo de %d MB", uc.maxImageBytes>>20)
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// attachImages sube los archivos y los registra. Si algo falla borra lo ya subido.
func (uc *ProductUseCase) attachImages(ctx context.Context, productID int64, uploads []ports.ImageUpload, primary int) error {
	if len(uploads) == 0 {
		return nil
	}
	images := make([]entity.ProductImage, 0, len(uploads))
	rollback := func() {
		for _, img := range images {
			_ = uc.storage.Delete(ctx, img.URL)
		}
	}
	for i, up := range uploads {
		key := fmt.Sprintf("clothes/%d/%s%s", productID, uuid.NewString(), imageExt(up))
		url, err := uc.storage.Save(ctx, key, up.Body, up.ContentType)
		if err != nil {
			rollback()
			return fmt.Errorf("guardar imagen %q: %w", up.Filename, err)
		}
		images = append(images, entity.ProductImage{
			ProductID: productID,
			URL:       url,
			IsPrimary: i == primary,
		})
	}
	if err := uc.repo.AddImages(ctx, productID, images); err != nil {
		rollback()
		return err
	}
	return nil
}

// primaryIndex acota el índice recibido a las imágenes subidas. Negativo apunta a la primera.
// Sin índice: la primera imagen es primaria solo si el producto aún no tiene imágenes.
func primaryIndex(idx *int, n int, hasExisting bool) int {
	if n == 0 {
		return -1
	}
	if idx == nil {
		if hasExisting {
			return -1
		}
		return 0
	}
	switch {
	case *idx < 0:
		return 0
	case *idx >= n:
		return n - 1
	}
	return *idx
}

func imageExt(up ports.ImageUpload) string {
	if ext := strings.ToLower(path.Ext(up.Filename)); ext != "" {
		return ext
	}
	switch up.ContentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".jpg"
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		TypeID:        p.TypeID,
		BrandID:       p.BrandID,
		SizeID:        p.SizeID,
		ColorID:       p.ColorID,
		Type:          toCatalogRef(p.Type),
		Brand:         toCatalogRef(p.Brand),
		Size:          toCatalogRef(p.Size),
		Color:         toCatalogRef(p.Color),
		Gender:        p.Gender,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Images:        make([]dto.ProductImageResponse, 0, len(p.Images)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, dto.ProductImageResponse{ID: img.ID, URL: img.URL, IsPrimary: img.IsPrimary})
	}
	if primary := p.PrimaryImage(); primary != nil {
		out.PrimaryImage = &dto.ProductImageResponse{ID: primary.ID, URL: primary.URL, IsPrimary: primary.IsPrimary}
	}
	return out
}

func toCatalogRef(e *entity.CatalogEntity) *dto.CatalogEntityResponse {
	if e == nil {
		return nil
	}
	return &dto.CatalogEntityResponse{ID: e.ID, Name: e.Name, HexCode: e.HexCode}
}

// ParsePrice convierte el texto de un campo de precio. Vacío equivale a cero.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
