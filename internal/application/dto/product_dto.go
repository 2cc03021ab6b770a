package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListQuery query string de GET /api/clothes.
type ProductListQuery struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	TypeID  int64  `query:"type_id"`
	BrandID int64  `query:"brand_id"`
	SizeID  int64  `query:"size_id"`
	ColorID int64  `query:"color_id"`
	Gender  string `query:"gender"`
	Q       string `query:"q"`
}

// ProductFormRequest campos del formulario multipart de alta/edición de producto.
// Los precios llegan como texto y se parsean en el handler.
type ProductFormRequest struct {
	Name          string          `form:"name" validate:"required,min=1,max=200"`
	TypeID        int64           `form:"type_id" validate:"required,gt=0"`
	BrandID       int64           `form:"brand_id" validate:"required,gt=0"`
	SizeID        int64           `form:"size_id" validate:"required,gt=0"`
	ColorID       int64           `form:"color_id" validate:"required,gt=0"`
	Gender        string          `form:"gender" validate:"required,oneof=unisex male female"`
	PurchasePrice decimal.Decimal `form:"purchase_price"`
	SalePrice     decimal.Decimal `form:"sale_price"`
	// PrimaryIndex índice dentro de las imágenes subidas en esta petición; nil si no se envió.
	PrimaryIndex *int `form:"primary_index"`
}

// CatalogEntityResponse fila de lookup (tipo, marca, talla, color).
type CatalogEntityResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hex_code,omitempty"`
}

// ProductImageResponse imagen de producto.
type ProductImageResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductResponse salida de un producto con sus relaciones embebidas.
type ProductResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	TypeID        int64                  `json:"type_id"`
	BrandID       int64                  `json:"brand_id"`
	SizeID        int64                  `json:"size_id"`
	ColorID       int64                  `json:"color_id"`
	Type          *CatalogEntityResponse `json:"type,omitempty"`
	Brand         *CatalogEntityResponse `json:"brand,omitempty"`
	Size          *CatalogEntityResponse `json:"size,omitempty"`
	Color         *CatalogEntityResponse `json:"color,omitempty"`
	Gender        string                 `json:"gender"`
	PurchasePrice decimal.Decimal        `json:"purchase_price"`
	SalePrice     decimal.Decimal        `json:"sale_price"`
	Images        []ProductImageResponse `json:"images"`
	PrimaryImage  *ProductImageResponse  `json:"primary_image,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ProductPageResponse página de productos: {data, current_page, last_page, per_page, total}.
type ProductPageResponse struct {
	Data []ProductResponse `json:"data"`
	PageMeta
}
