package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// ReportHandler reportes de ventas.
type ReportHandler struct {
	uc  *report.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// GetSales godoc
// @Summary      Reporte agregado de ventas
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalesReportDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reportes/ventas [get]
func (h *ReportHandler) GetSales(c *fiber.Ctx) error {
	out, err := h.uc.GetSalesReport(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DailyTicket godoc
// @Summary      Ticket PDF del día
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Param        fecha  path  string  true  "Día en formato YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/reportes/ventas/{fecha}/ticket [get]
func (h *ReportHandler) DailyTicket(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DailyTicket(c.UserContext(), c.Params("fecha"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
