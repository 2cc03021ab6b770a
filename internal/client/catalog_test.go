package client_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/client"
)

func productPage(page, last int, items ...dto.ProductResponse) dto.ProductPageResponse {
	if items == nil {
		items = []dto.ProductResponse{}
	}
	return dto.ProductPageResponse{
		Data:     items,
		PageMeta: dto.PageMeta{CurrentPage: page, LastPage: last, PerPage: dto.DefaultPerPage, Total: last * dto.DefaultPerPage},
	}
}

func product(id int64, name, price string) dto.ProductResponse {
	return dto.ProductResponse{ID: id, Name: name, Gender: "unisex", SalePrice: decimal.RequireFromString(price)}
}

func TestResolvePrimaryImage_Orden(t *testing.T) {
	imgs := []dto.ProductImageResponse{{ID: 1, URL: "a.png"}, {ID: 2, URL: "b.png", IsPrimary: true}}

	p := dto.ProductResponse{Images: imgs, PrimaryImage: &dto.ProductImageResponse{URL: "p.png"}}
	assert.Equal(t, "p.png", client.ResolvePrimaryImage(p))

	p.PrimaryImage = nil
	assert.Equal(t, "b.png", client.ResolvePrimaryImage(p))

	p.Images = []dto.ProductImageResponse{{URL: "a.png"}, {URL: "c.png"}}
	assert.Equal(t, "a.png", client.ResolvePrimaryImage(p))

	p.Images = nil
	assert.Equal(t, "", client.ResolvePrimaryImage(p))
}

func TestToProductRow_RelacionesAusentesQuedanVacias(t *testing.T) {
	p := product(3, "Sudadera", "599")
	p.Brand = &dto.CatalogEntityResponse{ID: 1, Name: "Urban"}

	row := client.ToProductRow(p)
	assert.Equal(t, "Urban", row.Brand)
	assert.Equal(t, "", row.Type)
	assert.Equal(t, "", row.Size)
	assert.Equal(t, "", row.Color)
}

func TestCatalogBrowser_PaginaYLimites(t *testing.T) {
	api := newFakeAPI(t)
	hits := api.handle("GET /api/clothes", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, productPage(page, 2, product(int64(page), "P"+strconv.Itoa(page), "100")))
	})
	b := client.NewCatalogBrowser(newClient(t, api.URL))
	ctx := context.Background()

	assert.False(t, b.CanPrev())
	assert.False(t, b.CanNext())

	page, err := b.FetchPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "P1", page.Items[0].Name)
	assert.False(t, b.CanPrev())
	assert.True(t, b.CanNext())

	page, err = b.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.True(t, b.CanPrev())
	assert.False(t, b.CanNext())

	before := hits.Load()
	_, err = b.FetchPage(ctx, 3)
	assert.ErrorIs(t, err, client.ErrPageOutOfRange)
	_, err = b.FetchPage(ctx, 0)
	assert.ErrorIs(t, err, client.ErrPageOutOfRange)
	assert.Equal(t, before, hits.Load(), "fuera de rango no debe hacer peticiones")
	assert.Equal(t, 2, b.Page().CurrentPage)
}

func TestCatalogBrowser_ErrorReiniciaAPagina1(t *testing.T) {
	api := newFakeAPI(t)
	fail := false
	var mu sync.Mutex
	api.handle("GET /api/clothes", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
			return
		}
		writeJSON(w, http.StatusOK, productPage(2, 3, product(1, "P", "1")))
	})
	b := client.NewCatalogBrowser(newClient(t, api.URL))
	ctx := context.Background()

	_, err := b.FetchPage(ctx, 2)
	require.NoError(t, err)

	mu.Lock()
	fail = true
	mu.Unlock()
	page, err := b.FetchPage(ctx, 3)
	require.Error(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Error(t, b.Err())
	assert.False(t, b.Loading())
}

func TestCatalogBrowser_DescartaRespuestaVieja(t *testing.T) {
	api := newFakeAPI(t)
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	api.handle("GET /api/clothes", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 1 {
			close(slowStarted)
			<-releaseSlow
		}
		writeJSON(w, http.StatusOK, productPage(page, 5, product(int64(page), "P"+strconv.Itoa(page), "1")))
	})
	b := client.NewCatalogBrowser(newClient(t, api.URL))
	ctx := context.Background()

	slowErr := make(chan error, 1)
	go func() {
		_, err := b.FetchPage(ctx, 1)
		slowErr <- err
	}()
	<-slowStarted

	page, err := b.FetchPage(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, page.CurrentPage)

	close(releaseSlow)
	assert.ErrorIs(t, <-slowErr, client.ErrStaleResponse)
	assert.Equal(t, 4, b.Page().CurrentPage)
	assert.Equal(t, "P4", b.Page().Items[0].Name)
}

func TestCatalogBrowser_DeleteRecargaPaginaActual(t *testing.T) {
	api := newFakeAPI(t)
	var deleted string
	list := api.handle("GET /api/clothes", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, productPage(page, 2, product(9, "P", "1")))
	})
	api.handle("DELETE /api/clothes/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	b := client.NewCatalogBrowser(newClient(t, api.URL))
	ctx := context.Background()

	_, err := b.FetchPage(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, b.Delete(ctx, 9))

	assert.Equal(t, "9", deleted)
	assert.EqualValues(t, 2, list.Load())
	assert.Equal(t, 2, b.Page().CurrentPage)
}

func TestGetProduct_NoEncontrado(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/clothes/by-id/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	})
	_, err := newClient(t, api.URL).GetProduct(context.Background(), 77)
	assert.ErrorIs(t, err, client.ErrNotFound)
}
