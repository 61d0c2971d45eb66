package ports

import (
	"context"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// HistoryProvider obtiene la serie histórica completa de adjusted close.
type HistoryProvider interface {
	// FetchHistory devuelve la serie completa del símbolo en el intervalo dado.
	// Para un símbolo desconocido devuelve una serie vacía, no un error.
	// Fallos de red o autenticación se devuelven envueltos en domain.ErrProvider.
	FetchHistory(ctx context.Context, symbol string, interval domain.Interval) (domain.RawTimeSeries, error)
}
