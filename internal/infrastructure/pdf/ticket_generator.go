// Package pdf genera el ticket de resumen diario de ventas con Maroto v2.
//
// Layout (280x500 pt, ~99x176 mm):
//
//	┌──────────────────────────┐
//	│        UrbanStyle         │
//	│  ──────────────────────  │
//	│  Fecha:       2025-01-31  │
//	│  Ventas:               4  │
//	│  Items:               11  │
//	│  Ingresos:     $2,350.00  │
//	│  Ganancias:      $910.00  │
//	│  ──────────────────────  │
//	│  ¡Gracias por su compra!  │
//	└──────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/report"
	"github.com/jhoicas/urbanstyle-admin/pkg/money"
)

// Dimensiones del ticket en mm (280x500 pt).
const (
	ticketWidthMM  = 98.8
	ticketHeightMM = 176.4
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
)

var _ report.TicketGenerator = (*TicketGenerator)(nil)

// TicketGenerator implementa report.TicketGenerator usando Maroto v2.
type TicketGenerator struct{}

// NewTicketGenerator construye el generador.
func NewTicketGenerator() *TicketGenerator { return &TicketGenerator{} }

// GenerateDailyTicket genera el PDF del ticket y devuelve sus bytes.
func (g *TicketGenerator) GenerateDailyTicket(_ context.Context, t dto.DailyTicket) ([]byte, error) {
	store := t.StoreName
	if store == "" {
		store = "UrbanStyle"
	}
	cfg := config.NewBuilder().
		WithDimensions(ticketWidthMM, ticketHeightMM).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(8).WithBottomMargin(6).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Ticket "+t.Fecha, true).
		WithAuthor(store, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(col.New(12).Add(
		text.New(store, props.Text{Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorPrimary}),
	)))
	m.AddRows(line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(
		fieldRow("Fecha:", t.Fecha),
		fieldRow("Ventas:", money.Number(t.Figures.Ventas)),
		fieldRow("Items:", money.Number(t.Figures.Items)),
		fieldRow("Ingresos:", money.MXN(t.Figures.Ingresos)),
		fieldRow("Ganancias:", money.MXN(t.Figures.Ganancias)),
	)

	m.AddRows(line.NewRow(6, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{Style: fontstyle.BoldItalic, Size: 11, Align: align.Center}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// fieldRow etiqueta a la izquierda, valor alineado a la derecha.
func fieldRow(label, value string) core.Row {
	return row.New(8).Add(
		col.New(5).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 10})),
		col.New(7).Add(text.New(value, props.Text{Size: 10, Align: align.Right})),
	)
}
