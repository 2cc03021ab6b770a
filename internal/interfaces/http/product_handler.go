package http

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/ports"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// Nombres de campo de archivo aceptados para imágenes.
var imageFields = []string{"images[]", "images"}

// ProductHandler maneja las peticiones HTTP del catálogo de prendas (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar prendas (paginado)
// @Tags         clothes
// @Security     Bearer
// @Produce      json
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        per_page  query  int     false  "Elementos por página"
// @Param        type_id   query  int     false  "Filtro por tipo"
// @Param        brand_id  query  int     false  "Filtro por marca"
// @Param        size_id   query  int     false  "Filtro por talla"
// @Param        color_id  query  int     false  "Filtro por color"
// @Param        gender    query  string  false  "unisex, male, female"
// @Param        q         query  string  false  "Búsqueda por nombre"
// @Success      200  {object}  dto.ProductPageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/clothes [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	page, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

// GetByID godoc
// @Summary      Obtener prenda por ID
// @Tags         clothes
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la prenda"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clothes/{id} [get]
// @Router       /api/clothes/by-id/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear prenda
// @Tags         clothes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name            formData  string  true   "Nombre"
// @Param        type_id         formData  int     true   "Tipo"
// @Param        brand_id        formData  int     true   "Marca"
// @Param        size_id         formData  int     true   "Talla"
// @Param        color_id        formData  int     true   "Color"
// @Param        gender          formData  string  true   "unisex, male, female"
// @Param        purchase_price  formData  number  true   "Precio de compra"
// @Param        sale_price      formData  number  true   "Precio de venta"
// @Param        primary_index   formData  int     false  "Índice de la imagen principal"
// @Param        images[]        formData  file    false  "Imágenes"
// @Success      201  {object}  dto.ProductResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/clothes [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, uploads, closeAll, err := parseProductForm(c)
	defer closeAll()
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), in, uploads)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar prenda
// @Description  Las imágenes nuevas se agregan a las existentes.
// @Tags         clothes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  int  true  "ID de la prenda"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/clothes/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	in, uploads, closeAll, err := parseProductForm(c)
	defer closeAll()
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in, uploads)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateOverride godoc
// @Summary      Actualizar prenda (POST con _method=PUT)
// @Description  Para clientes que no pueden enviar PUT multipart.
// @Tags         clothes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path      int     true  "ID de la prenda"
// @Param        _method  formData  string  true  "PUT"
// @Success      200  {object}  dto.ProductResponse
// @Failure      405  {object}  dto.ErrorResponse
// @Router       /api/clothes/{id} [post]
func (h *ProductHandler) UpdateOverride(c *fiber.Ctx) error {
	if !strings.EqualFold(c.FormValue("_method"), fiber.MethodPut) {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "use PUT o envíe _method=PUT"})
	}
	return h.Update(c)
}

// Delete godoc
// @Summary      Eliminar prenda
// @Tags         clothes
// @Security     Bearer
// @Param        id  path  int  true  "ID de la prenda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clothes/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id de prenda inválido: %w", domain.ErrInvalidInput)
	}
	return id, nil
}

// parseProductForm lee los campos y archivos del formulario multipart.
// closeAll siempre es invocable, aun si hubo error.
func parseProductForm(c *fiber.Ctx) (dto.ProductFormRequest, []ports.ImageUpload, func(), error) {
	var (
		in      dto.ProductFormRequest
		uploads []ports.ImageUpload
		files   []multipart.File
	)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	fields := map[string]string{}

	in.Name = strings.TrimSpace(c.FormValue("name"))
	in.Gender = strings.TrimSpace(c.FormValue("gender"))
	ids := []struct {
		field string
		dst   *int64
	}{
		{"type_id", &in.TypeID},
		{"brand_id", &in.BrandID},
		{"size_id", &in.SizeID},
		{"color_id", &in.ColorID},
	}
	for _, f := range ids {
		raw := strings.TrimSpace(c.FormValue(f.field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields[f.field] = "debe ser numérico"
			continue
		}
		*f.dst = v
	}
	var err error
	if in.PurchasePrice, err = usecase.ParsePrice(c.FormValue("purchase_price")); err != nil {
		fields["purchase_price"] = "debe ser numérico"
	}
	if in.SalePrice, err = usecase.ParsePrice(c.FormValue("sale_price")); err != nil {
		fields["sale_price"] = "debe ser numérico"
	}
	if raw := strings.TrimSpace(c.FormValue("primary_index")); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			fields["primary_index"] = "debe ser numérico"
		} else {
			in.PrimaryIndex = &idx
		}
	}
	if len(fields) > 0 {
		return in, nil, closeAll, &domain.ValidationError{Fields: fields}
	}

	form, err := c.MultipartForm()
	if err != nil {
		// Sin multipart no hay imágenes; los campos ya se leyeron de FormValue.
		return in, nil, closeAll, nil
	}
	for _, name := range imageFields {
		for _, fh := range form.File[name] {
			f, err := fh.Open()
			if err != nil {
				return in, nil, closeAll, fmt.Errorf("abrir imagen %q: %w", fh.Filename, err)
			}
			files = append(files, f)
			uploads = append(uploads, ports.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
				Body:        f,
			})
		}
	}
	return in, uploads, closeAll, nil
}
