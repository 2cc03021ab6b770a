// Package report contiene el reporte agregado de ventas y el ticket PDF diario.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

const topProductsLimit = 10 // productos en el ranking de más vendidos

// ReportUseCase arma el reporte de ventas desde ReportRepository (consultas read-only).
type ReportUseCase struct {
	repo      repository.ReportRepository
	generator TicketGenerator
	storeName string
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository, generator TicketGenerator, storeName string) *ReportUseCase {
	return &ReportUseCase{repo: repo, generator: generator, storeName: storeName}
}

// GetSalesReport construye el SalesReportDTO.
//
// Cuatro consultas en paralelo:
//  1. GetTotals       → totalVentas, totalItems, ingresos, ganancias
//  2. GetSalesByDay   → ventasPorDia
//  3. GetSalesByUser  → ventasPorUsuario
//  4. GetTopProducts  → productosMasVendidos
func (uc *ReportUseCase) GetSalesReport(ctx context.Context) (*dto.SalesReportDTO, error) {
	var (
		totals   repository.SalesTotals
		byDay    []repository.DaySalesResult
		byUser   []repository.UserSalesResult
		products []repository.ProductSalesResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = uc.repo.GetTotals(gctx)
		if err != nil {
			return fmt.Errorf("reporte: totales: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		byDay, err = uc.repo.GetSalesByDay(gctx)
		if err != nil {
			return fmt.Errorf("reporte: ventas por día: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		byUser, err = uc.repo.GetSalesByUser(gctx)
		if err != nil {
			return fmt.Errorf("reporte: ventas por usuario: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		products, err = uc.repo.GetTopProducts(gctx, topProductsLimit)
		if err != nil {
			return fmt.Errorf("reporte: productos más vendidos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SalesReportDTO{
		TotalVentas:          totals.Ventas,
		TotalItems:           totals.Items,
		Ingresos:             totals.Ingresos.Round(2),
		Ganancias:            totals.Ganancias.Round(2),
		VentasPorDia:         make(map[string]dto.SalesFigures, len(byDay)),
		VentasPorUsuario:     make(map[string]dto.SalesFigures, len(byUser)),
		ProductosMasVendidos: make([]dto.TopProductDTO, 0, len(products)),
	}
	for _, d := range byDay {
		out.VentasPorDia[d.Fecha] = toFigures(d.SalesTotals)
	}
	for _, u := range byUser {
		out.VentasPorUsuario[u.Usuario] = toFigures(u.SalesTotals)
	}
	for _, p := range products {
		out.ProductosMasVendidos = append(out.ProductosMasVendidos, dto.TopProductDTO{
			ProductID:   p.ProductID,
			Descripcion: p.Descripcion,
			Cantidad:    p.Cantidad,
			Ingresos:    p.Ingresos.Round(2),
			Ganancias:   p.Ganancias.Round(2),
		})
	}
	return out, nil
}

// DailyTicket genera el PDF del resumen del día fecha (YYYY-MM-DD).
//
// Retorna:
//   - (pdfBytes, filename, nil) si hay ventas ese día.
//   - *domain.ValidationError    si la fecha no tiene el formato esperado.
//   - domain.ErrNotFound         si no hubo ventas.
func (uc *ReportUseCase) DailyTicket(ctx context.Context, fecha string) ([]byte, string, error) {
	fecha = strings.TrimSpace(fecha)
	day, err := time.ParseInLocation(time.DateOnly, fecha, time.Local)
	if err != nil {
		return nil, "", domain.NewValidationError("fecha", "formato esperado YYYY-MM-DD")
	}
	totals, err := uc.repo.GetDayTotals(ctx, day)
	if err != nil {
		return nil, "", fmt.Errorf("ticket: totales del día: %w", err)
	}
	if totals.Ventas == 0 {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.generator.GenerateDailyTicket(ctx, dto.DailyTicket{
		StoreName: uc.storeName,
		Fecha:     fecha,
		Figures:   toFigures(totals),
	})
	if err != nil {
		return nil, "", fmt.Errorf("ticket: generar pdf: %w", err)
	}
	return pdf, TicketFilename(fecha), nil
}

// TicketFilename nombre del archivo del ticket: Ticket_<fecha>.pdf.
func TicketFilename(fecha string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return "Ticket_" + r.Replace(fecha) + ".pdf"
}

func toFigures(t repository.SalesTotals) dto.SalesFigures {
	return dto.SalesFigures{
		Ventas:    t.Ventas,
		Items:     t.Items,
		Ingresos:  t.Ingresos.Round(2),
		Ganancias: t.Ganancias.Round(2),
	}
}
