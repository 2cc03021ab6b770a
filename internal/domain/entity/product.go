package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Géneros de prenda.
const (
	GenderUnisex = "unisex"
	GenderMale   = "male"
	GenderFemale = "female"
)

// ValidGender indica si g es un género aceptado.
func ValidGender(g string) bool {
	return g == GenderUnisex || g == GenderMale || g == GenderFemale
}

// Product representa una prenda del catálogo.
// Type, Brand, Size y Color se llenan en lecturas con join; pueden ser nil.
type Product struct {
	ID            int64
	Name          string
	TypeID        int64
	BrandID       int64
	SizeID        int64
	ColorID       int64
	Gender        string
	PurchasePrice decimal.Decimal // costo, base de la ganancia en reportes
	SalePrice     decimal.Decimal
	Type          *CatalogEntity
	Brand         *CatalogEntity
	Size          *CatalogEntity
	Color         *CatalogEntity
	Images        []ProductImage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductImage imagen asociada a un producto. A lo sumo una es primaria.
type ProductImage struct {
	ID        int64
	ProductID int64
	URL       string
	IsPrimary bool
	Position  int
}

// PrimaryImage devuelve la imagen primaria, o la primera si ninguna está marcada.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}
