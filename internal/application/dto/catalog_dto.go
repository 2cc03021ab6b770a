package dto

// CreateCatalogEntryRequest alta de una entrada de lookup. HexCode (#RRGGBB) es obligatorio en colores e ignorado en el resto.
type CreateCatalogEntryRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	HexCode string `json:"hex_code,omitempty" validate:"omitempty,hexcolor,len=7"`
}
