package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/pkg/money"
)

// TicketRenderer genera el PDF del ticket diario (infrastructure/pdf).
type TicketRenderer = report.TicketGenerator

// FigureRow fila formateada de la tabla de ventas por día o por vendedor.
type FigureRow struct {
	Key       string
	Ventas    int
	Items     int
	Ingresos  string
	Ganancias string
}

// TopProductRow fila del ranking de productos.
type TopProductRow struct {
	ProductID   int64
	Descripcion string
	Cantidad    int
	Ingresos    string
	Ganancias   string
}

// ReportView pantalla "Reporte de Ventas".
type ReportView struct {
	c         *Client
	renderer  TicketRenderer
	storeName string

	mu   sync.Mutex
	data *dto.SalesReportDTO
}

// NewReportView crea la vista. renderer genera los tickets localmente.
func NewReportView(c *Client, renderer TicketRenderer, storeName string) *ReportView {
	return &ReportView{c: c, renderer: renderer, storeName: storeName}
}

// Load pide el agregado al servidor y lo deja disponible para las tablas.
func (v *ReportView) Load(ctx context.Context) (*dto.SalesReportDTO, error) {
	var out dto.SalesReportDTO
	if err := v.c.get(ctx, "/api/reportes/ventas", &out); err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.data = &out
	v.mu.Unlock()
	return &out, nil
}

func (v *ReportView) loaded() (*dto.SalesReportDTO, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.data == nil {
		return nil, errors.New("reporte: no cargado")
	}
	return v.data, nil
}

// Totals resumen formateado: ventas, items, ingresos, ganancias.
func (v *ReportView) Totals() (FigureRow, error) {
	d, err := v.loaded()
	if err != nil {
		return FigureRow{}, err
	}
	return FigureRow{
		Key:       "Total",
		Ventas:    d.TotalVentas,
		Items:     d.TotalItems,
		Ingresos:  money.MXN(d.Ingresos),
		Ganancias: money.MXN(d.Ganancias),
	}, nil
}

// DayRows ventas por día en orden cronológico.
func (v *ReportView) DayRows() ([]FigureRow, error) {
	d, err := v.loaded()
	if err != nil {
		return nil, err
	}
	rows := figureRows(d.VentasPorDia)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows, nil
}

// UserRows ventas por vendedor, de mayor a menor número de ventas.
func (v *ReportView) UserRows() ([]FigureRow, error) {
	d, err := v.loaded()
	if err != nil {
		return nil, err
	}
	rows := figureRows(d.VentasPorUsuario)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Ventas != rows[j].Ventas {
			return rows[i].Ventas > rows[j].Ventas
		}
		return rows[i].Key < rows[j].Key
	})
	return rows, nil
}

// TopProductRows ranking de productos en el orden del servidor.
func (v *ReportView) TopProductRows() ([]TopProductRow, error) {
	d, err := v.loaded()
	if err != nil {
		return nil, err
	}
	rows := make([]TopProductRow, 0, len(d.ProductosMasVendidos))
	for _, p := range d.ProductosMasVendidos {
		rows = append(rows, TopProductRow{
			ProductID:   p.ProductID,
			Descripcion: p.Descripcion,
			Cantidad:    p.Cantidad,
			Ingresos:    money.MXN(p.Ingresos),
			Ganancias:   money.MXN(p.Ganancias),
		})
	}
	return rows, nil
}

func figureRows(m map[string]dto.SalesFigures) []FigureRow {
	rows := make([]FigureRow, 0, len(m))
	for k, f := range m {
		rows = append(rows, FigureRow{
			Key:       k,
			Ventas:    f.Ventas,
			Items:     f.Items,
			Ingresos:  money.MXN(f.Ingresos),
			Ganancias: money.MXN(f.Ganancias),
		})
	}
	return rows
}

// GenerateDailyTicket genera el ticket del día fecha con las cifras ya cargadas.
// Devuelve ErrNotFound si ese día no aparece en el reporte.
func (v *ReportView) GenerateDailyTicket(ctx context.Context, fecha string) ([]byte, string, error) {
	d, err := v.loaded()
	if err != nil {
		return nil, "", err
	}
	figures, ok := d.VentasPorDia[fecha]
	if !ok {
		return nil, "", fmt.Errorf("%w: sin ventas el %s", ErrNotFound, fecha)
	}
	if v.renderer == nil {
		return nil, "", errors.New("reporte: sin generador de tickets")
	}
	pdf, err := v.renderer.GenerateDailyTicket(ctx, dto.DailyTicket{
		StoreName: v.storeName,
		Fecha:     fecha,
		Figures:   figures,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar ticket: %w", err)
	}
	return pdf, report.TicketFilename(fecha), nil
}

// DownloadTicket pide al servidor el ticket de fecha ya generado.
func (v *ReportView) DownloadTicket(ctx context.Context, fecha string) ([]byte, string, error) {
	status, body, err := v.c.send(ctx, http.MethodGet, "/api/reportes/ventas/"+url.PathEscape(fecha)+"/ticket", nil, "")
	if err != nil {
		return nil, "", err
	}
	if status != http.StatusOK {
		return nil, "", newAPIError(status, body)
	}
	return body, report.TicketFilename(fecha), nil
}
