package dto

// Paginación del listado de productos.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageMeta metadatos de página con la convención {current_page, last_page}.
// Invariante: 1 <= CurrentPage <= LastPage.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// NewPageMeta calcula LastPage y acota page al rango válido.
func NewPageMeta(page, perPage, total int) PageMeta {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	return PageMeta{CurrentPage: page, LastPage: last, PerPage: perPage, Total: total}
}

// Offset fila inicial de la página actual.
func (m PageMeta) Offset() int {
	return (m.CurrentPage - 1) * m.PerPage
}

// ErrorResponse cuerpo de error HTTP. Errors lleva el detalle por campo en respuestas 422.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
