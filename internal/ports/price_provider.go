package ports

import "context"

// PriceProvider obtiene el último precio negociado de un símbolo.
type PriceProvider interface {
	// FetchLastPrice devuelve domain.ErrUnknownSymbol si el símbolo no resuelve.
	FetchLastPrice(ctx context.Context, symbol string) (float64, error)
}
