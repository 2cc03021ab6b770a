package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/pdf"
)

func TestGenerateDailyTicket_GeneraPDF(t *testing.T) {
	g := pdf.NewTicketGenerator()
	out, err := g.GenerateDailyTicket(context.Background(), dto.DailyTicket{
		StoreName: "UrbanStyle",
		Fecha:     "2025-01-31",
		Figures: dto.SalesFigures{
			Ventas:    4,
			Items:     11,
			Ingresos:  decimal.RequireFromString("2350.00"),
			Ganancias: decimal.RequireFromString("910.00"),
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el contenido debe ser un PDF")
}

func TestGenerateDailyTicket_SinNombreDeTienda(t *testing.T) {
	g := pdf.NewTicketGenerator()
	out, err := g.GenerateDailyTicket(context.Background(), dto.DailyTicket{Fecha: "2025-02-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
