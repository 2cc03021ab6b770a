package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/ports"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/memory"
)

// fakeStorage guarda las imágenes en un mapa url -> contenido.
type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	failOn  int // falla en el n-ésimo Save (1-based); 0 nunca
	saves   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (f *fakeStorage) Save(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.failOn > 0 && f.saves == f.failOn {
		return "", errors.New("disco lleno")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := "mem://" + key
	f.files[url] = b
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

var _ ports.ImageStorage = (*fakeStorage)(nil)

// catalogIDs ids sembrados de cada lookup.
type catalogIDs struct {
	Type, Brand, Size, Color int64
}

func seedCatalog(t *testing.T, store *memory.Store) catalogIDs {
	t.Helper()
	ctx := context.Background()
	repo := store.Catalog()
	create := func(res entity.CatalogResource, name, hex string) int64 {
		e := &entity.CatalogEntity{Name: name, HexCode: hex}
		require.NoError(t, repo.Create(ctx, res, e))
		return e.ID
	}
	return catalogIDs{
		Type:  create(entity.ResourceTypes, "Playera", ""),
		Brand: create(entity.ResourceBrands, "Levi's", ""),
		Size:  create(entity.ResourceSizes, "M", ""),
		Color: create(entity.ResourceColors, "Verde azulado", "#008080"),
	}
}

func imageUpload(name, contentType string) ports.ImageUpload {
	body := "contenido-" + name
	return ports.ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}
