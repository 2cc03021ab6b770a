package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/storage"
)

// ─────────────────────────────────────────────────────────────────────────────
// LocalStorage
// ─────────────────────────────────────────────────────────────────────────────

func TestLocalStorage_SaveYDelete(t *testing.T) {
	root := t.TempDir()
	st := storage.NewLocalStorage(root, "http://localhost:8080/uploads/")

	url, err := st.Save(context.Background(), "clothes/1/a.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/clothes/1/a.png", url)

	content, err := os.ReadFile(filepath.Join(root, "clothes", "1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))

	require.NoError(t, st.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(root, "clothes", "1", "a.png"))
	assert.True(t, os.IsNotExist(err), "el archivo debe eliminarse")

	assert.NoError(t, st.Delete(context.Background(), url), "eliminar dos veces no es error")
}

func TestLocalStorage_NoEscapaDelRoot(t *testing.T) {
	root := t.TempDir()
	st := storage.NewLocalStorage(root, "http://x/uploads")

	_, err := st.Save(context.Background(), "../../etc/evil.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "etc", "evil.png"))
	assert.NoError(t, err, "la ruta se confina dentro del root")
}

// ─────────────────────────────────────────────────────────────────────────────
// S3Storage
// ─────────────────────────────────────────────────────────────────────────────

type fakeS3 struct {
	s3iface.S3API
	put    *s3.PutObjectInput
	delKey string
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.delKey = aws.StringValue(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_SaveYDelete(t *testing.T) {
	fake := &fakeS3{}
	st := storage.NewS3StorageWithClient(fake, "urbanstyle", "https://cdn.example.com")

	url, err := st.Save(context.Background(), "clothes/7/x.jpg", strings.NewReader("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/clothes/7/x.jpg", url)
	require.NotNil(t, fake.put)
	assert.Equal(t, "urbanstyle", aws.StringValue(fake.put.Bucket))
	assert.Equal(t, "image/jpeg", aws.StringValue(fake.put.ContentType))

	require.NoError(t, st.Delete(context.Background(), url))
	assert.Equal(t, "clothes/7/x.jpg", fake.delKey)
}
