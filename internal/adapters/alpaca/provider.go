package alpaca

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

// Verificación en compilación de las interfaces.
var (
	_ ports.HistoryProvider = (*Provider)(nil)
	_ ports.PriceProvider   = (*Provider)(nil)
)

// adjustmentAll pide barras ajustadas por splits y dividendos, la misma base
// que un adjusted close.
const adjustmentAll = marketdata.Adjustment("all")

// Provider sirve el histórico de barras ajustadas y el último trade desde la API
// de market data de Alpaca.
type Provider struct {
	client *marketdata.Client
	start  time.Time
	loc    *time.Location
	log    *slog.Logger
}

// NewProvider crea un Provider con las credenciales dadas. dataURL vacío usa el
// endpoint de producción. El histórico se pide desde start.
func NewProvider(apiKey, apiSecret, dataURL string, start time.Time) *Provider {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	return &Provider{
		client: marketdata.NewClient(opts),
		start:  start,
		loc:    loc,
		log:    slog.Default().With("provider", "alpaca"),
	}
}

// FetchHistory devuelve los cierres ajustados por fecha de sesión (hora de Nueva York).
// Un símbolo desconocido da una serie vacía.
func (p *Provider) FetchHistory(ctx context.Context, symbol string, interval domain.Interval) (domain.RawTimeSeries, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tf, err := timeFrame(interval)
	if err != nil {
		return nil, err
	}

	bars, err := p.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
		TimeFrame:  tf,
		Adjustment: adjustmentAll,
		Start:      p.start,
		End:        time.Now().Add(-15 * time.Minute),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca.FetchHistory %s: %w: %w", symbol, domain.ErrProvider, err)
	}

	series := make(domain.RawTimeSeries, len(bars))
	for _, b := range bars {
		date := b.Timestamp.In(p.loc).Format(domain.DateLayout)
		series[date] = decimal.NewFromFloat(b.Close).String()
	}

	p.log.Debug("history fetched", "symbol", symbol, "interval", interval, "bars", len(bars))
	return series, nil
}

// FetchLastPrice devuelve el precio del último trade redondeado a centavos.
func (p *Provider) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	trade, err := p.client.GetLatestTrade(strings.ToUpper(symbol), marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("alpaca.FetchLastPrice %s: %w: %w", symbol, domain.ErrProvider, err)
	}
	if trade == nil || trade.Price <= 0 {
		return 0, fmt.Errorf("alpaca.FetchLastPrice: %w: %s", domain.ErrUnknownSymbol, symbol)
	}
	return domain.Round2(trade.Price), nil
}

func timeFrame(interval domain.Interval) (marketdata.TimeFrame, error) {
	switch interval {
	case domain.IntervalDaily:
		return marketdata.OneDay, nil
	case domain.IntervalWeekly:
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case domain.IntervalMonthly:
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("alpaca: %w: interval %q", domain.ErrInvalidRequest, interval)
}
