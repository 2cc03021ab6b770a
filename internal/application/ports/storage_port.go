package ports

import (
	"context"
	"io"
)

// ImageStorage puerto de almacenamiento de imágenes de producto (disco local o S3).
type ImageStorage interface {
	// Save guarda el contenido bajo key y devuelve la URL pública.
	Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Delete elimina el objeto referenciado por una URL devuelta por Save. No falla si ya no existe.
	Delete(ctx context.Context, url string) error
}

// ImageUpload archivo recibido en el formulario de producto.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
