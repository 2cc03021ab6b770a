package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
)

// ProductRow fila de la tabla de productos. Las relaciones ausentes quedan en "".
type ProductRow struct {
	ID              int64
	Name            string
	Type            string
	Brand           string
	Size            string
	Color           string
	Gender          string
	PurchasePrice   decimal.Decimal
	SalePrice       decimal.Decimal
	PrimaryImageURL string
}

// CatalogPage página mostrada. Siempre 1 <= CurrentPage <= LastPage.
type CatalogPage struct {
	Items       []ProductRow
	CurrentPage int
	LastPage    int
}

func emptyPage() CatalogPage { return CatalogPage{CurrentPage: 1, LastPage: 1} }

// ResolvePrimaryImage URL de la imagen principal: primary_image, luego la primera
// marcada is_primary, luego la primera imagen. "" si no hay imágenes.
func ResolvePrimaryImage(p dto.ProductResponse) string {
	if p.PrimaryImage != nil && p.PrimaryImage.URL != "" {
		return p.PrimaryImage.URL
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// ToProductRow aplana un producto para la tabla.
func ToProductRow(p dto.ProductResponse) ProductRow {
	return ProductRow{
		ID:              p.ID,
		Name:            p.Name,
		Type:            entityName(p.Type),
		Brand:           entityName(p.Brand),
		Size:            entityName(p.Size),
		Color:           entityName(p.Color),
		Gender:          p.Gender,
		PurchasePrice:   p.PurchasePrice,
		SalePrice:       p.SalePrice,
		PrimaryImageURL: ResolvePrimaryImage(p),
	}
}

func entityName(e *dto.CatalogEntityResponse) string {
	if e == nil {
		return ""
	}
	return e.Name
}

// ListProducts pide una página cruda de /api/clothes.
func (c *Client) ListProducts(ctx context.Context, page, perPage int) (*dto.ProductPageResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	var out dto.ProductPageResponse
	if err := c.get(ctx, "/api/clothes?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllProducts recorre todas las páginas del catálogo.
func (c *Client) ListAllProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var all []dto.ProductResponse
	for page := 1; ; page++ {
		res, err := c.ListProducts(ctx, page, dto.MaxPerPage)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if res.CurrentPage >= res.LastPage || len(res.Data) == 0 {
			return all, nil
		}
	}
}

// GetProduct busca un producto por id. ErrNotFound si no existe.
func (c *Client) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.get(ctx, fmt.Sprintf("/api/clothes/by-id/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct elimina un producto.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/clothes/%d", id), nil, "", nil)
}

// CatalogBrowser estado de la tabla paginada de productos.
// Cada fetch incrementa una generación; las respuestas de fetches anteriores se descartan.
type CatalogBrowser struct {
	c *Client

	mu        sync.Mutex
	gen       uint64
	page      CatalogPage
	lastKnown bool // LastPage viene de una respuesta real
	loading   bool
	err       error
}

// NewCatalogBrowser crea el navegador en página 1 de 1, sin items.
func NewCatalogBrowser(c *Client) *CatalogBrowser {
	return &CatalogBrowser{c: c, page: emptyPage()}
}

// FetchPage carga page. Fuera de [1, LastPage] devuelve ErrPageOutOfRange sin hacer la petición.
// Si otra llamada más reciente ya empezó, el resultado de esta se descarta con ErrStaleResponse.
func (b *CatalogBrowser) FetchPage(ctx context.Context, page int) (CatalogPage, error) {
	b.mu.Lock()
	if page < 1 || (b.lastKnown && page > b.page.LastPage) {
		b.mu.Unlock()
		return CatalogPage{}, fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}
	b.gen++
	gen := b.gen
	b.loading = true
	b.mu.Unlock()

	res, err := b.c.ListProducts(ctx, page, 0)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return CatalogPage{}, ErrStaleResponse
	}
	b.loading = false
	if err != nil {
		b.page = emptyPage()
		b.lastKnown = false
		b.err = err
		return b.snapshot(), err
	}

	items := make([]ProductRow, 0, len(res.Data))
	for _, p := range res.Data {
		items = append(items, ToProductRow(p))
	}
	current, last := res.CurrentPage, res.LastPage
	if last < 1 {
		last = 1
	}
	if current < 1 || current > last {
		current = min(max(current, 1), last)
	}
	b.page = CatalogPage{Items: items, CurrentPage: current, LastPage: last}
	b.lastKnown = true
	b.err = nil
	return b.snapshot(), nil
}

func (b *CatalogBrowser) snapshot() CatalogPage {
	cp := b.page
	cp.Items = append([]ProductRow(nil), b.page.Items...)
	return cp
}

// Page copia del estado actual.
func (b *CatalogBrowser) Page() CatalogPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

// Err último error de carga, nil tras una carga exitosa.
func (b *CatalogBrowser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *CatalogBrowser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *CatalogBrowser) CanPrev() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page.CurrentPage > 1
}

func (b *CatalogBrowser) CanNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page.CurrentPage < b.page.LastPage
}

func (b *CatalogBrowser) currentPage() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page.CurrentPage
}

func (b *CatalogBrowser) Next(ctx context.Context) (CatalogPage, error) {
	return b.FetchPage(ctx, b.currentPage()+1)
}

func (b *CatalogBrowser) Prev(ctx context.Context) (CatalogPage, error) {
	return b.FetchPage(ctx, b.currentPage()-1)
}

// Refresh recarga la página actual. Si la página quedó vacía tras un borrado, retrocede una.
func (b *CatalogBrowser) Refresh(ctx context.Context) (CatalogPage, error) {
	page := b.currentPage()
	b.mu.Lock()
	b.lastKnown = false
	b.mu.Unlock()
	res, err := b.FetchPage(ctx, page)
	if err == nil && len(res.Items) == 0 && res.CurrentPage > 1 {
		return b.FetchPage(ctx, res.CurrentPage-1)
	}
	return res, err
}

// Delete borra el producto y recarga la página actual.
func (b *CatalogBrowser) Delete(ctx context.Context, id int64) error {
	if err := b.c.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if _, err := b.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		return err
	}
	return nil
}
