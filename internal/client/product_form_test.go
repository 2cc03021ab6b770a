package client_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/client"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func validFields() client.ProductFields {
	return client.ProductFields{
		Name: "Playera oversize", TypeID: 1, BrandID: 2, SizeID: 3, ColorID: 4,
		Gender: "unisex", PurchasePrice: "150", SalePrice: "349.90", PrimaryIndex: 1,
	}
}

// receivedForm lo que el fake recibió en el multipart.
type receivedForm struct {
	path   string
	values map[string]string
	files  []string
	types  []string
}

func productFormAPI(t *testing.T, status int) (*fakeAPI, *receivedForm) {
	t.Helper()
	api := newFakeAPI(t)
	got := &receivedForm{values: map[string]string{}}
	handler := func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		for k, v := range r.MultipartForm.Value {
			got.values[k] = v[0]
		}
		for _, fh := range r.MultipartForm.File["images[]"] {
			got.files = append(got.files, fh.Filename)
			got.types = append(got.types, fh.Header.Get("Content-Type"))
		}
		if status != http.StatusCreated && status != http.StatusOK {
			writeJSON(w, status, dto.ErrorResponse{
				Code: "VALIDATION", Message: "datos inválidos", Errors: map[string]string{"sale_price": "debe ser mayor que 0"},
			})
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if id == 0 {
			id = 10
		}
		writeJSON(w, status, dto.ProductResponse{ID: id, Name: got.values["name"], SalePrice: decimal.RequireFromString(got.values["sale_price"])})
	}
	api.handle("POST /api/clothes", handler)
	api.handle("POST /api/clothes/{id}", handler)
	return api, got
}

func TestProductForm_ValidacionLocalSinPeticion(t *testing.T) {
	api, _ := productFormAPI(t, http.StatusCreated)
	form := client.NewProductForm(newClient(t, api.URL), nil)

	f := validFields()
	f.TypeID = 0
	f.SalePrice = "gratis"
	form.SetFields(f)
	_, err := form.Submit(context.Background())

	var verr *client.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type_id")
	assert.Contains(t, verr.Fields, "sale_price")
	assert.Zero(t, api.total.Load())
	assert.Equal(t, "gratis", form.Fields().SalePrice, "los campos se conservan")
}

func TestProductForm_PreciosNegativosSinPeticion(t *testing.T) {
	api, _ := productFormAPI(t, http.StatusCreated)
	form := client.NewProductForm(newClient(t, api.URL), nil)

	f := validFields()
	f.PurchasePrice = "-50"
	f.SalePrice = "-0.01"
	form.SetFields(f)
	_, err := form.Submit(context.Background())

	var verr *client.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "debe ser mayor o igual a 0", verr.Fields["purchase_price"])
	assert.Equal(t, "debe ser mayor o igual a 0", verr.Fields["sale_price"])
	assert.Zero(t, api.total.Load())
	assert.Equal(t, "-50", form.Fields().PurchasePrice, "el formulario conserva lo capturado")

	f.PurchasePrice = "0"
	f.SalePrice = "349.90"
	form.SetFields(f)
	_, err = form.Submit(context.Background())
	require.NoError(t, err, "cero es un precio válido")
	assert.EqualValues(t, 1, api.total.Load())
}

func TestProductForm_AltaEnviaMultipartYLimpia(t *testing.T) {
	api, got := productFormAPI(t, http.StatusCreated)
	list := api.handle("GET /api/clothes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, productPage(1, 1, product(10, "Playera oversize", "349.90")))
	})
	c := newClient(t, api.URL)
	browser := client.NewCatalogBrowser(c)
	form := client.NewProductForm(c, browser)

	form.SetFields(validFields())
	form.SetFiles([]client.ImageFile{{Filename: "frente.png", Content: pngHeader}, {Filename: "espalda.png", Content: pngHeader}})
	out, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 10, out.ID)
	assert.Equal(t, "/api/clothes", got.path)
	assert.Equal(t, "Playera oversize", got.values["name"])
	assert.Equal(t, "4", got.values["color_id"])
	assert.Equal(t, "349.90", got.values["sale_price"])
	assert.Equal(t, "1", got.values["primary_index"])
	assert.NotContains(t, got.values, "_method")
	assert.Equal(t, []string{"frente.png", "espalda.png"}, got.files)
	assert.Equal(t, []string{"image/png", "image/png"}, got.types)

	assert.Equal(t, "Producto creado.", form.Message())
	assert.Equal(t, "", form.Fields().Name)
	assert.Equal(t, "unisex", form.Fields().Gender)
	assert.Empty(t, form.Files())
	assert.EqualValues(t, 1, list.Load(), "la tabla se recarga tras guardar")
	assert.Len(t, browser.Page().Items, 1)
}

func TestProductForm_ErrorDelServidorConservaFormulario(t *testing.T) {
	api, _ := productFormAPI(t, http.StatusUnprocessableEntity)
	form := client.NewProductForm(newClient(t, api.URL), nil)

	fields := validFields()
	files := []client.ImageFile{{Filename: "frente.png", Content: pngHeader}}
	form.SetFields(fields)
	form.SetFiles(files)
	_, err := form.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, fields, form.Fields())
	assert.Equal(t, files, form.Files())
	assert.Equal(t, `Error: {"sale_price":"debe ser mayor que 0"}`, form.Message())
	assert.Equal(t, err, form.LastError())
}

func TestProductForm_EdicionUsaMethodOverride(t *testing.T) {
	api, got := productFormAPI(t, http.StatusOK)
	form := client.NewProductForm(newClient(t, api.URL), nil)

	form.LoadForEdit(client.ProductRow{
		ID: 7, Name: "Sudadera", Type: "Sudadera", Brand: "Urban", Gender: "female",
		PurchasePrice: decimal.RequireFromString("300"), SalePrice: decimal.RequireFromString("599.5"),
	})
	assert.True(t, form.IsEdit())
	loaded := form.Fields()
	assert.Equal(t, "Sudadera", loaded.Name)
	assert.Equal(t, "female", loaded.Gender)
	assert.Equal(t, "599.5", loaded.SalePrice)
	assert.Zero(t, loaded.TypeID, "las relaciones se eligen de nuevo")
	assert.Zero(t, loaded.BrandID)

	_, err := form.Submit(context.Background())
	var verr *client.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, api.total.Load())

	loaded.TypeID, loaded.BrandID, loaded.SizeID, loaded.ColorID = 1, 1, 1, 1
	form.SetFields(loaded)
	_, err = form.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/clothes/7", got.path)
	assert.Equal(t, http.MethodPut, got.values["_method"])
	assert.Equal(t, "Producto actualizado.", form.Message())
	assert.False(t, form.IsEdit())
}

func TestProductForm_ErrorDeConexion(t *testing.T) {
	api, _ := productFormAPI(t, http.StatusCreated)
	url := api.URL
	api.Close()
	form := client.NewProductForm(newClient(t, url), nil)
	form.SetFields(validFields())

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, client.ErrConnection)
	assert.Equal(t, "Error al conectar con el servidor", form.Message())
	assert.Equal(t, "Playera oversize", form.Fields().Name)
}
