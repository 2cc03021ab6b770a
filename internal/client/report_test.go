package client_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/client"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/pdf"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func reportAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := newFakeAPI(t)
	api.handle("GET /api/reportes/ventas", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.SalesReportDTO{
			TotalVentas: 3, TotalItems: 5, Ingresos: d("1600.56"), Ganancias: d("950.56"),
			VentasPorDia: map[string]dto.SalesFigures{
				"2026-10-15": {Ventas: 1, Items: 1, Ingresos: d("200.556"), Ganancias: d("100.556")},
				"2026-10-01": {Ventas: 2, Items: 4, Ingresos: d("1400"), Ganancias: d("850")},
			},
			VentasPorUsuario: map[string]dto.SalesFigures{
				"Vero":  {Ventas: 1, Items: 1, Ingresos: d("200.556"), Ganancias: d("100.556")},
				"Admin": {Ventas: 2, Items: 4, Ingresos: d("1400"), Ganancias: d("850")},
			},
			ProductosMasVendidos: []dto.TopProductDTO{
				{ProductID: 2, Descripcion: "Gorra", Cantidad: 3, Ingresos: d("750"), Ganancias: d("450")},
				{ProductID: 1, Descripcion: "Playera", Cantidad: 2, Ingresos: d("850.556"), Ganancias: d("500.556")},
			},
		})
	})
	return api
}

type captureRenderer struct{ got dto.DailyTicket }

func (r *captureRenderer) GenerateDailyTicket(_ context.Context, t dto.DailyTicket) ([]byte, error) {
	r.got = t
	return []byte("%PDF-fake"), nil
}

func TestReportView_FilasOrdenadas(t *testing.T) {
	api := reportAPI(t)
	v := client.NewReportView(newClient(t, api.URL), nil, "UrbanStyle")

	_, err := v.DayRows()
	require.Error(t, err, "sin cargar no hay filas")

	agg, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, agg.TotalVentas)

	days, err := v.DayRows()
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-01", days[0].Key)
	assert.Equal(t, "2026-10-15", days[1].Key)
	assert.True(t, strings.HasSuffix(days[1].Ingresos, "200.56"), days[1].Ingresos)

	users, err := v.UserRows()
	require.NoError(t, err)
	assert.Equal(t, "Admin", users[0].Key)
	assert.Equal(t, "Vero", users[1].Key)

	top, err := v.TopProductRows()
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Gorra", top[0].Descripcion)
	assert.True(t, strings.HasPrefix(top[1].Ingresos, "$"), top[1].Ingresos)

	totals, err := v.Totals()
	require.NoError(t, err)
	assert.Equal(t, 5, totals.Items)
	assert.True(t, strings.HasSuffix(totals.Ganancias, "950.56"), totals.Ganancias)
}

func TestReportView_GenerateDailyTicket(t *testing.T) {
	api := reportAPI(t)
	renderer := &captureRenderer{}
	v := client.NewReportView(newClient(t, api.URL), renderer, "UrbanStyle Centro")
	ctx := context.Background()
	_, err := v.Load(ctx)
	require.NoError(t, err)

	b, name, err := v.GenerateDailyTicket(ctx, "2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, "Ticket_2026-10-01.pdf", name)
	assert.Equal(t, []byte("%PDF-fake"), b)
	assert.Equal(t, "UrbanStyle Centro", renderer.got.StoreName)
	assert.Equal(t, 4, renderer.got.Figures.Items)

	_, _, err = v.GenerateDailyTicket(ctx, "2026-09-30")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestReportView_TicketConMaroto(t *testing.T) {
	api := reportAPI(t)
	v := client.NewReportView(newClient(t, api.URL), pdf.NewTicketGenerator(), "UrbanStyle")
	ctx := context.Background()
	_, err := v.Load(ctx)
	require.NoError(t, err)

	b, _, err := v.GenerateDailyTicket(ctx, "2026-10-15")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestReportView_DownloadTicket(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET /api/reportes/ventas/{fecha}/ticket", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("fecha") != "2026-10-15" {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin ventas"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.3 servidor"))
	})
	v := client.NewReportView(newClient(t, api.URL), nil, "")
	ctx := context.Background()

	b, name, err := v.DownloadTicket(ctx, "2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, "Ticket_2026-10-15.pdf", name)
	assert.Equal(t, "%PDF-1.3 servidor", string(b))

	_, _, err = v.DownloadTicket(ctx, "2026-10-14")
	assert.ErrorIs(t, err, client.ErrNotFound)
}
