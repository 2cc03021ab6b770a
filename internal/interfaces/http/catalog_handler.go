package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// CatalogHandler lookups de tipos, marcas, tallas y colores.
type CatalogHandler struct {
	uc  *usecase.CatalogUseCase
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar entradas de un catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        resource  path  string  true  "types, brands, sizes, colors"
// @Success      200  {array}   dto.CatalogEntityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{resource} [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("resource"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear entrada de catálogo
// @Description  hex_code (#RRGGBB) es obligatorio para colores.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        resource  path  string                          true  "types, brands, sizes, colors"
// @Param        body      body  dto.CreateCatalogEntryRequest  true  "name, hex_code"
// @Success      201  {object}  dto.CatalogEntityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/catalog/{resource} [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCatalogEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), c.Params("resource"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
