package entity

// CatalogResource identifica una de las tablas de lookup del catálogo.
type CatalogResource string

const (
	ResourceTypes  CatalogResource = "types"
	ResourceBrands CatalogResource = "brands"
	ResourceSizes  CatalogResource = "sizes"
	ResourceColors CatalogResource = "colors"
)

// CatalogResources en el orden en que se muestran en el formulario de producto.
var CatalogResources = []CatalogResource{ResourceTypes, ResourceBrands, ResourceSizes, ResourceColors}

// ParseCatalogResource valida el segmento de ruta /catalog/{resource}.
func ParseCatalogResource(s string) (CatalogResource, bool) {
	for _, r := range CatalogResources {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Table nombre de la tabla SQL del recurso.
func (r CatalogResource) Table() string {
	switch r {
	case ResourceTypes:
		return "clothing_types"
	case ResourceBrands:
		return "brands"
	case ResourceSizes:
		return "sizes"
	case ResourceColors:
		return "colors"
	}
	return ""
}

// HasHexCode solo los colores guardan código hexadecimal.
func (r CatalogResource) HasHexCode() bool { return r == ResourceColors }

// CatalogEntity fila de una tabla de lookup (tipo, marca, talla o color).
type CatalogEntity struct {
	ID      int64
	Name    string
	HexCode string // solo colores
}
