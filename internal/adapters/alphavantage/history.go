package alphavantage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

var _ ports.HistoryProvider = (*Client)(nil)

// FetchHistory pide la serie ajustada completa (outputsize=full) del intervalo.
// Las respuestas de throttling se reintentan hasta throttleRetries veces.
func (c *Client) FetchHistory(ctx context.Context, symbol string, interval domain.Interval) (domain.RawTimeSeries, error) {
	spec, ok := seriesByInterval[interval]
	if !ok {
		return nil, fmt.Errorf("alphavantage.FetchHistory: %w: interval %q", domain.ErrInvalidRequest, interval)
	}

	q := url.Values{}
	q.Set("function", spec.function)
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("outputsize", "full")
	q.Set("apikey", c.apiKey)

	var resp queryResponse
	for attempt := 0; ; attempt++ {
		resp = nil
		if err := c.get(ctx, c.base+"/query?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("alphavantage.FetchHistory %s: %w", symbol, err)
		}
		if !throttled(resp, spec) || attempt >= c.throttleRetries {
			break
		}
		slog.Warn("throttled by alphavantage", "symbol", symbol, "attempt", attempt+1, "wait", c.throttleWait)
		if err := c.waitThrottle(ctx); err != nil {
			return nil, fmt.Errorf("alphavantage.FetchHistory %s: %w", symbol, err)
		}
	}

	series, err := mapSeries(resp, spec)
	if err != nil {
		return nil, fmt.Errorf("alphavantage.FetchHistory %s: %w", symbol, err)
	}

	slog.Debug("alphavantage history fetched",
		"symbol", symbol,
		"interval", interval,
		"points", len(series),
	)
	return series, nil
}
