package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// ImageFile imagen seleccionada para subir.
type ImageFile struct {
	Filename string
	Content  []byte
}

// ProductFields valores capturados en el formulario. Los precios se guardan como texto tal cual se escribieron.
type ProductFields struct {
	ID            int64  `json:"-"`
	Name          string `json:"name" validate:"required,max=200"`
	TypeID        int64  `json:"type_id" validate:"required,gt=0"`
	BrandID       int64  `json:"brand_id" validate:"required,gt=0"`
	SizeID        int64  `json:"size_id" validate:"required,gt=0"`
	ColorID       int64  `json:"color_id" validate:"required,gt=0"`
	Gender        string `json:"gender" validate:"required,oneof=unisex male female"`
	PurchasePrice string `json:"purchase_price" validate:"required,numeric"`
	SalePrice     string `json:"sale_price" validate:"required,numeric"`
	PrimaryIndex  int    `json:"primary_index" validate:"min=0"`
}

func blankProduct() ProductFields { return ProductFields{Gender: entity.GenderUnisex} }

// ProductForm controlador del formulario de alta y edición de productos.
type ProductForm struct {
	c       *Client
	browser *CatalogBrowser

	mu      sync.Mutex
	fields  ProductFields
	files   []ImageFile
	message string
	lastErr error
}

// NewProductForm crea el formulario. browser, si no es nil, se recarga tras guardar.
func NewProductForm(c *Client, browser *CatalogBrowser) *ProductForm {
	return &ProductForm{c: c, browser: browser, fields: blankProduct()}
}

func (f *ProductForm) Fields() ProductFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *ProductForm) SetFields(v ProductFields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.fields.ID
	f.fields = v
	f.fields.ID = id
}

func (f *ProductForm) Files() []ImageFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ImageFile(nil), f.files...)
}

func (f *ProductForm) SetFiles(files []ImageFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append([]ImageFile(nil), files...)
}

// IsEdit indica si el formulario edita un producto existente.
func (f *ProductForm) IsEdit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.ID != 0
}

// Message texto de resultado de la última operación.
func (f *ProductForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *ProductForm) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// LoadForEdit prepara la edición de row. Nombre, género y precios se copian;
// tipo, marca, talla y color quedan sin seleccionar y deben elegirse de nuevo.
func (f *ProductForm) LoadForEdit(row ProductRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gender := row.Gender
	if gender == "" {
		gender = entity.GenderUnisex
	}
	f.fields = ProductFields{
		ID:            row.ID,
		Name:          row.Name,
		Gender:        gender,
		PurchasePrice: row.PurchasePrice.String(),
		SalePrice:     row.SalePrice.String(),
	}
	f.files = nil
	f.message = ""
	f.lastErr = nil
}

// Reset vuelve al formulario de alta vacío.
func (f *ProductForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *ProductForm) reset() {
	f.fields = blankProduct()
	f.files = nil
}

// Submit valida localmente y envía el formulario multipart.
// Alta: POST /api/clothes. Edición: POST /api/clothes/{id} con _method=PUT.
// Si el servidor responde con error los campos y archivos se conservan.
func (f *ProductForm) Submit(ctx context.Context) (*dto.ProductResponse, error) {
	f.mu.Lock()
	fields := f.fields
	files := append([]ImageFile(nil), f.files...)
	f.message = ""
	f.lastErr = nil
	f.mu.Unlock()

	fields.Name = strings.TrimSpace(fields.Name)
	fields.PurchasePrice = strings.TrimSpace(fields.PurchasePrice)
	fields.SalePrice = strings.TrimSpace(fields.SalePrice)
	if errs := validateProductFields(fields); errs != nil {
		err := &ValidationError{Fields: errs}
		f.fail(err)
		return nil, err
	}

	body, contentType, err := encodeProductForm(fields, files)
	if err != nil {
		return nil, err
	}
	path := "/api/clothes"
	if fields.ID != 0 {
		path = fmt.Sprintf("/api/clothes/%d", fields.ID)
	}

	var out dto.ProductResponse
	if err := f.c.do(ctx, http.MethodPost, path, body, contentType, &out); err != nil {
		f.fail(err)
		return nil, err
	}

	f.mu.Lock()
	if fields.ID != 0 {
		f.message = "Producto actualizado."
	} else {
		f.message = "Producto creado."
	}
	f.reset()
	f.mu.Unlock()

	if f.browser != nil {
		if _, err := f.browser.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
			f.c.log.Warn().Err(err).Msg("no se pudo recargar el catálogo")
		}
	}
	return &out, nil
}

// validateProductFields aplica las etiquetas y exige precios no negativos.
func validateProductFields(fields ProductFields) map[string]string {
	errs := validation.Struct(fields)
	prices := []struct {
		key, value string
	}{
		{"purchase_price", fields.PurchasePrice},
		{"sale_price", fields.SalePrice},
	}
	for _, p := range prices {
		if _, tagged := errs[p.key]; tagged {
			continue
		}
		v, err := decimal.NewFromString(p.value)
		if err != nil {
			continue
		}
		if v.IsNegative() {
			if errs == nil {
				errs = map[string]string{}
			}
			errs[p.key] = "debe ser mayor o igual a 0"
		}
	}
	return errs
}

func (f *ProductForm) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = err
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		f.message = "Error: " + apiErr.Detail()
		return
	}
	f.message = UserMessage(err)
}

func encodeProductForm(fields ProductFields, files []ImageFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	values := [][2]string{
		{"name", fields.Name},
		{"type_id", strconv.FormatInt(fields.TypeID, 10)},
		{"brand_id", strconv.FormatInt(fields.BrandID, 10)},
		{"size_id", strconv.FormatInt(fields.SizeID, 10)},
		{"color_id", strconv.FormatInt(fields.ColorID, 10)},
		{"gender", fields.Gender},
		{"purchase_price", fields.PurchasePrice},
		{"sale_price", fields.SalePrice},
		{"primary_index", strconv.Itoa(fields.PrimaryIndex)},
	}
	if fields.ID != 0 {
		values = append(values, [2]string{"_method", http.MethodPut})
	}
	for _, kv := range values {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images[]"; filename=%q`, file.Filename))
		h.Set("Content-Type", http.DetectContentType(file.Content))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
