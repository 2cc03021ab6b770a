package report

import (
	"context"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
)

// TicketGenerator genera el PDF del ticket de resumen diario.
// Implementado en infrastructure/pdf con Maroto.
type TicketGenerator interface {
	GenerateDailyTicket(ctx context.Context, t dto.DailyTicket) ([]byte, error)
}
