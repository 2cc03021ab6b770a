package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/jhoicas/urbanstyle-admin/internal/application/ports"
	"github.com/jhoicas/urbanstyle-admin/pkg/config"
)

var _ ports.ImageStorage = (*S3Storage)(nil)

// S3Storage sube las imágenes a un bucket de S3 con lectura pública.
type S3Storage struct {
	client        s3iface.S3API
	bucket        string
	publicBaseURL string
}

// NewS3Storage crea la sesión AWS. Sin access key usa la cadena de credenciales por defecto.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("storage: S3_BUCKET vacío")
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: sesión AWS: %w", err)
	}
	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	if cfg.S3PublicURL != "" {
		base = cfg.S3PublicURL
	}
	return NewS3StorageWithClient(s3.New(sess), cfg.S3Bucket, base), nil
}

// NewS3StorageWithClient permite inyectar el cliente (tests).
func NewS3StorageWithClient(client s3iface.S3API, bucket, publicBaseURL string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Save sube el objeto. PutObject necesita un ReadSeeker, por eso se bufferiza el contenido.
func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	buf, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("storage: leer imagen: %w", err)
	}
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("storage: subir a s3: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete elimina el objeto de una URL generada por Save.
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicBaseURL+"/")
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: eliminar de s3: %w", err)
	}
	return nil
}
