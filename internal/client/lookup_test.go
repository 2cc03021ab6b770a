package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/client"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// colorsAPI catálogo de colores en memoria servido por el fake.
func colorsAPI(t *testing.T) (*fakeAPI, *[]dto.CreateCatalogEntryRequest) {
	t.Helper()
	api := newFakeAPI(t)
	var mu sync.Mutex
	colors := []dto.CatalogEntityResponse{{ID: 1, Name: "Negro", HexCode: "#000000"}}
	var received []dto.CreateCatalogEntryRequest
	api.handle("GET /api/catalog/colors", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, colors)
	})
	api.handle("POST /api/catalog/colors", func(w http.ResponseWriter, r *http.Request) {
		var in dto.CreateCatalogEntryRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		mu.Lock()
		defer mu.Unlock()
		received = append(received, in)
		created := dto.CatalogEntityResponse{ID: int64(len(colors) + 41), Name: in.Name, HexCode: in.HexCode}
		colors = append(colors, created)
		writeJSON(w, http.StatusCreated, created)
	})
	return api, &received
}

func TestCatalogSelect_CrearColorRecargaYPreselecciona(t *testing.T) {
	api, received := colorsAPI(t)
	sel := client.NewCatalogSelect(client.NewLookupManager(newClient(t, api.URL)), entity.ResourceColors)
	ctx := context.Background()
	require.NoError(t, sel.Load(ctx))
	require.Len(t, sel.Options(), 1)

	sel.StartAdd()
	assert.Equal(t, client.ModeAdding, sel.Mode())
	sel.SetDraft("Teal", "#008080")
	id, err := sel.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, client.ModeSelecting, sel.Mode())
	assert.Equal(t, id, sel.Selected())
	require.Len(t, *received, 1)
	assert.Equal(t, dto.CreateCatalogEntryRequest{Name: "Teal", HexCode: "#008080"}, (*received)[0])

	opts := sel.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, "Teal", opts[1].Name)
	assert.Equal(t, id, opts[1].ID)
	assert.EqualValues(t, 2, api.hits["GET /api/catalog/colors"].Load(), "la lista se vuelve a pedir tras crear")
}

func TestCatalogSelect_NombreVacioNoHacePeticion(t *testing.T) {
	api, _ := colorsAPI(t)
	sel := client.NewCatalogSelect(client.NewLookupManager(newClient(t, api.URL)), entity.ResourceColors)

	sel.StartAdd()
	sel.SetDraft("   ", "")
	id, err := sel.Save(context.Background())
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Zero(t, api.total.Load())
	assert.Equal(t, client.ModeAdding, sel.Mode())

	sel.CancelAdd()
	assert.Equal(t, client.ModeSelecting, sel.Mode())
}

func TestCatalogSelect_FalloConservaModoAltaYRespuesta(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST /api/catalog/brands", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe"})
	})
	sel := client.NewCatalogSelect(client.NewLookupManager(newClient(t, api.URL)), entity.ResourceBrands)

	sel.StartAdd()
	sel.SetDraft("Urban", "")
	_, err := sel.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, client.ModeAdding, sel.Mode())
	assert.Zero(t, sel.Selected())
	var apiErr *client.APIError
	require.ErrorAs(t, sel.LastError(), &apiErr)
	assert.JSONEq(t, `{"code":"DUPLICATE","message":"ya existe"}`, apiErr.Detail())
	assert.EqualValues(t, 1, api.total.Load(), "sin reintentos")
}

func TestCatalogSelect_RecargaFallidaNoAgregaLocalmente(t *testing.T) {
	api := newFakeAPI(t)
	var lists sync.Mutex
	calls := 0
	api.handle("GET /api/catalog/brands", func(w http.ResponseWriter, r *http.Request) {
		lists.Lock()
		calls++
		n := calls
		lists.Unlock()
		if n > 1 {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "db caída"})
			return
		}
		writeJSON(w, http.StatusOK, []dto.CatalogEntityResponse{{ID: 1, Name: "Urban"}})
	})
	api.handle("POST /api/catalog/brands", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, dto.CatalogEntityResponse{ID: 7, Name: "Norte"})
	})
	sel := client.NewCatalogSelect(client.NewLookupManager(newClient(t, api.URL)), entity.ResourceBrands)
	ctx := context.Background()
	require.NoError(t, sel.Load(ctx))

	sel.StartAdd()
	sel.SetDraft("Norte", "")
	id, err := sel.Save(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 7, id)
	assert.EqualValues(t, 7, sel.Selected())
	assert.Equal(t, client.ModeSelecting, sel.Mode())
	require.Len(t, sel.Options(), 1, "la lista solo cambia con lo que devuelve el servidor")
	assert.Equal(t, "Urban", sel.Options()[0].Name)
	assert.Error(t, sel.LastError())
	assert.EqualValues(t, 2, api.hits["GET /api/catalog/brands"].Load())
}

func TestLookupManager_HexSoloEnColores(t *testing.T) {
	api := newFakeAPI(t)
	var got map[string]any
	api.handle("POST /api/catalog/sizes", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, dto.CatalogEntityResponse{ID: 5, Name: "XL"})
	})
	_, err := client.NewLookupManager(newClient(t, api.URL)).Create(context.Background(), entity.ResourceSizes,
		dto.CreateCatalogEntryRequest{Name: " XL ", HexCode: "#ffffff"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "XL"}, got)
}

func TestLookupManager_LoadAll(t *testing.T) {
	api := newFakeAPI(t)
	for _, res := range entity.CatalogResources {
		name := string(res)
		api.handle("GET /api/catalog/"+name, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []dto.CatalogEntityResponse{{ID: 1, Name: name}})
		})
	}
	all, err := client.NewLookupManager(newClient(t, api.URL)).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "types", all.Types[0].Name)
	assert.Equal(t, "brands", all.Brands[0].Name)
	assert.Equal(t, "sizes", all.Sizes[0].Name)
	assert.Equal(t, "colors", all.Colors[0].Name)
}

func TestLookupManager_LoadAllFallaSiFallaUna(t *testing.T) {
	api := newFakeAPI(t)
	for _, res := range entity.CatalogResources {
		status := http.StatusOK
		if res == entity.ResourceSizes {
			status = http.StatusInternalServerError
		}
		api.handle("GET /api/catalog/"+string(res), func(w http.ResponseWriter, r *http.Request) {
			if status != http.StatusOK {
				writeJSON(w, status, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
				return
			}
			writeJSON(w, status, []dto.CatalogEntityResponse{})
		})
	}
	_, err := client.NewLookupManager(newClient(t, api.URL)).LoadAll(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
