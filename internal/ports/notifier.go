package ports

import (
	"context"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// Notifier presenta las predicciones al usuario.
type Notifier interface {
	// Notify muestra el resultado de un lote, incluyendo los ítems que fallaron.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, results []domain.BatchResult) error
}
