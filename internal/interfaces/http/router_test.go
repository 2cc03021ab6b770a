package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/auth"
	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/internal/application/sales"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/memory"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/urbanstyle-admin/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/urbanstyle-admin/pkg/jwt"
)

type testServer struct {
	app     *fiber.App
	store   *memory.Store
	tokens  map[string]string // rol -> "Bearer ..."
	userIDs map[string]string // rol -> id
	refs    map[entity.CatalogResource]int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	images := storage.NewLocalStorage(t.TempDir(), "http://test/uploads")

	srv := &testServer{
		store:   store,
		tokens:  map[string]string{},
		userIDs: map[string]string{},
		refs:    map[entity.CatalogResource]int64{},
	}
	hash, err := auth.HashPassword("123456789")
	require.NoError(t, err)
	for _, role := range []string{entity.RoleAdmin, entity.RoleVendedor, entity.RoleCliente} {
		u := &entity.User{
			ID: role + "-id", Name: "Usuario " + role, Email: role + "@urbanstyle.mx",
			PasswordHash: hash, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		require.NoError(t, store.Users().Create(ctx, u))
		tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Name, role, testIssuer, testExpMin)
		require.NoError(t, err)
		srv.tokens[role] = "Bearer " + tok
		srv.userIDs[role] = u.ID
	}
	for _, res := range entity.CatalogResources {
		e := &entity.CatalogEntity{Name: "Base " + string(res)}
		if res.HasHexCode() {
			e.HexCode = "#112233"
		}
		require.NoError(t, store.Catalog().Create(ctx, res, e))
		srv.refs[res] = e.ID
	}

	srv.app = fiber.New()
	apphttp.Router(srv.app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:       usecase.NewUserUseCase(store.Users()),
		ProductUC:    usecase.NewProductUseCase(store.Products(), store.Catalog(), images, 1<<20, nil),
		CatalogUC:    usecase.NewCatalogUseCase(store.Catalog()),
		SaleUC:       sales.NewSaleUseCase(store.TxRunner(), store.Users(), store.Sales(), nil),
		ReportUC:     report.NewReportUseCase(store.Reports(), pdf.NewTicketGenerator(), "UrbanStyle"),
		JWTSecret:    testJWTSecret,
		LoginLimiter: apphttp.NewLoginRateLimiter(600, 100),
	})
	return srv
}

func (s *testServer) do(t *testing.T, method, path, role string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		req.Header.Set("Authorization", s.tokens[role])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) doJSON(t *testing.T, method, path, role string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(t, method, path, role, body, fiber.MIMEApplicationJSON)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// productForm arma el multipart de alta/edición con imágenes PNG de prueba.
func (s *testServer) productForm(t *testing.T, fields map[string]string, images int) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	base := map[string]string{
		"name":           "Playera oversize",
		"type_id":        fmt.Sprint(s.refs[entity.ResourceTypes]),
		"brand_id":       fmt.Sprint(s.refs[entity.ResourceBrands]),
		"size_id":        fmt.Sprint(s.refs[entity.ResourceSizes]),
		"color_id":       fmt.Sprint(s.refs[entity.ResourceColors]),
		"gender":         "unisex",
		"purchase_price": "150",
		"sale_price":     "349.90",
	}
	for k, v := range fields {
		base[k] = v
	}
	for k, v := range base {
		require.NoError(t, w.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images[]"; filename="foto%d.png"`, i))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG-fake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAuth_RegisterYLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.doJSON(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Name: "Nueva Clienta", Email: "nueva@x.mx", Password: "123456789", Role: "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "cliente", user.Role)

	resp = srv.doJSON(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: "nueva@x.mx", Password: "123456789"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)

	resp = srv.doJSON(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: "nueva@x.mx", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuth_RegisterEmailDuplicado_409(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.doJSON(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Name: "Otra", Email: "cliente@urbanstyle.mx", Password: "123456789",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestUsers_SoloAdmin(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.doJSON(t, http.MethodGet, "/api/users", entity.RoleVendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, "/api/users", entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]dto.UserResponse](t, resp)
	assert.Len(t, users, 3)

	resp = srv.doJSON(t, http.MethodGet, "/api/users/clientes", entity.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	clientes := decode[[]dto.UserResponse](t, resp)
	require.Len(t, clientes, 1)
	assert.Equal(t, "cliente", clientes[0].Role)
}

func TestUsers_CrudAdmin(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.doJSON(t, http.MethodPost, "/api/users", entity.RoleAdmin, dto.CreateUserRequest{
		Name: "Vale", Email: "vale@x.mx", Password: "123456789", Role: "vendedor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.UserResponse](t, resp)

	resp = srv.doJSON(t, http.MethodPut, "/api/users/"+created.ID, entity.RoleAdmin, dto.UpdateUserRequest{
		Name: "Valeria", Email: "vale@x.mx", Role: "admin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "Valeria", updated.Name)
	assert.Equal(t, "admin", updated.Role)

	resp = srv.doJSON(t, http.MethodDelete, "/api/users/"+srv.userIDs[entity.RoleAdmin], entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "no puede eliminarse a sí mismo")
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodDelete, "/api/users/"+created.ID, entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_CreateInvalido_422ConErrores(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.doJSON(t, http.MethodPost, "/api/users", entity.RoleAdmin, dto.CreateUserRequest{
		Name: "Vale", Email: "no-es-email", Password: "corta", Role: "vendedor",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestCatalog_ColorSinHex_422(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.doJSON(t, http.MethodPost, "/api/catalog/colors", entity.RoleAdmin, dto.CreateCatalogEntryRequest{Name: "Rojo"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Errors, "hex_code")
}

func TestCatalog_ListYCreate(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.doJSON(t, http.MethodPost, "/api/catalog/brands", entity.RoleVendedor, dto.CreateCatalogEntryRequest{Name: "Nike"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodPost, "/api/catalog/brands", entity.RoleAdmin, dto.CreateCatalogEntryRequest{Name: "Nike"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, "/api/catalog/brands", entity.RoleCliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	brands := decode[[]dto.CatalogEntityResponse](t, resp)
	assert.Len(t, brands, 2)

	resp = srv.doJSON(t, http.MethodGet, "/api/catalog/materiales", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestClothes_CrearListarObtener(t *testing.T) {
	srv := newTestServer(t)

	body, ct := srv.productForm(t, map[string]string{"primary_index": "1"}, 2)
	resp := srv.do(t, http.MethodPost, "/api/clothes", entity.RoleAdmin, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	require.Len(t, created.Images, 2)
	require.NotNil(t, created.PrimaryImage)
	assert.Equal(t, created.Images[1].URL, created.PrimaryImage.URL)
	assert.True(t, strings.HasPrefix(created.PrimaryImage.URL, "http://test/uploads/clothes/"))
	assert.Equal(t, "349.9", created.SalePrice.String())

	resp = srv.doJSON(t, http.MethodGet, "/api/clothes?page=5&per_page=10", entity.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ProductPageResponse](t, resp)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	require.NotNil(t, page.Data[0].Brand)

	resp = srv.doJSON(t, http.MethodGet, fmt.Sprintf("/api/clothes/by-id/%d", created.ID), entity.RoleCliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, "/api/clothes/by-id/999999", entity.RoleCliente, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestClothes_CrearInvalido_422(t *testing.T) {
	srv := newTestServer(t)
	body, ct := srv.productForm(t, map[string]string{"name": "", "brand_id": "abc", "gender": "otro"}, 0)
	resp := srv.do(t, http.MethodPost, "/api/clothes", entity.RoleAdmin, body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, errResp.Errors, "brand_id")
}

func TestClothes_SoloAdminCrea(t *testing.T) {
	srv := newTestServer(t)
	body, ct := srv.productForm(t, nil, 0)
	resp := srv.do(t, http.MethodPost, "/api/clothes", entity.RoleVendedor, body, ct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestClothes_MethodOverride(t *testing.T) {
	srv := newTestServer(t)
	body, ct := srv.productForm(t, nil, 1)
	resp := srv.do(t, http.MethodPost, "/api/clothes", entity.RoleAdmin, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	path := fmt.Sprintf("/api/clothes/%d", created.ID)

	body, ct = srv.productForm(t, map[string]string{"name": "Sin override"}, 0)
	resp = srv.do(t, http.MethodPost, path, entity.RoleAdmin, body, ct)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()

	body, ct = srv.productForm(t, map[string]string{"name": "Playera editada", "_method": "PUT"}, 1)
	resp = srv.do(t, http.MethodPost, path, entity.RoleAdmin, body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Playera editada", updated.Name)
	assert.Len(t, updated.Images, 2)
	assert.Equal(t, created.PrimaryImage.URL, updated.PrimaryImage.URL)

	body, ct = srv.productForm(t, map[string]string{"name": "Con PUT"}, 0)
	resp = srv.do(t, http.MethodPut, path, entity.RoleAdmin, body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodDelete, path, entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, path, entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestVentas_FlujoCompleto(t *testing.T) {
	srv := newTestServer(t)

	body, ct := srv.productForm(t, nil, 0)
	resp := srv.do(t, http.MethodPost, "/api/clothes", entity.RoleAdmin, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)

	sale := map[string]any{
		"id_cliente": srv.userIDs[entity.RoleCliente],
		"items":      []map[string]any{{"product_id": product.ID, "quantity": 2, "price": "349.90"}},
		"total":      "699.80",
	}
	resp = srv.doJSON(t, http.MethodPost, "/api/ventas", entity.RoleCliente, sale)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un cliente no registra ventas")
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodPost, "/api/ventas", entity.RoleVendedor, sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.SaleResponse](t, resp)
	assert.Equal(t, "699.8", created.Total.String())
	assert.Equal(t, srv.userIDs[entity.RoleVendedor], created.Vendedor.ID)

	resp = srv.doJSON(t, http.MethodGet, "/api/ventas", entity.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.SaleResponse](t, resp), 1)

	resp = srv.doJSON(t, http.MethodGet, "/api/ventas/mis-compras", entity.RoleCliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	compras := decode[[]dto.SaleResponse](t, resp)
	require.Len(t, compras, 1)
	assert.Equal(t, "Playera oversize", compras[0].Productos[0].Descripcion)

	resp = srv.doJSON(t, http.MethodGet, "/api/ventas/all", entity.RoleVendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, "/api/reportes/ventas", entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[dto.SalesReportDTO](t, resp)
	assert.Equal(t, 1, rep.TotalVentas)
	assert.Equal(t, 2, rep.TotalItems)
	assert.Equal(t, "399.8", rep.Ganancias.String())

	today := time.Now().Format(time.DateOnly)
	resp = srv.doJSON(t, http.MethodGet, "/api/reportes/ventas/"+today+"/ticket", entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Ticket_"+today+".pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestVentas_ClienteInexistente_404(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.doJSON(t, http.MethodPost, "/api/ventas", entity.RoleVendedor, map[string]any{
		"id_cliente": "no-existe",
		"items":      []map[string]any{{"product_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReportes_TicketSinVentas_404(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.doJSON(t, http.MethodGet, "/api/reportes/ventas/2020-01-01/ticket", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = srv.doJSON(t, http.MethodGet, "/api/reportes/ventas/ayer/ticket", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestRutasProtegidas_SinToken_401(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/clothes", "/api/users", "/api/ventas", "/api/catalog/types"} {
		resp := srv.doJSON(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}
