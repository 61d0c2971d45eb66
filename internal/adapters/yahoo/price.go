package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

const (
	defaultBase = "https://query1.finance.yahoo.com"

	// El chart API no documenta límites; 2 req/s evita los 429 en lotes grandes.
	chartRatePerSec = 2
)

var _ ports.PriceProvider = (*PriceClient)(nil)

// PriceClient obtiene el último precio desde el chart API público de Yahoo Finance.
type PriceClient struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

// NewPriceClient crea un PriceClient. base vacío usa el host de producción.
func NewPriceClient(base string) *PriceClient {
	if base == "" {
		base = defaultBase
	}
	return &PriceClient{
		http:    &http.Client{Timeout: 15 * time.Second},
		base:    strings.TrimRight(base, "/"),
		limiter: rate.NewLimiter(chartRatePerSec, 2),
	}
}

// chartResponse es el subconjunto de /v8/finance/chart que usamos.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchLastPrice devuelve el último precio redondeado a 2 decimales.
// Un ticker sin datos del último día cuenta como inexistente.
func (c *PriceClient) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice: rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.base, url.PathEscape(strings.ToUpper(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice %s: %w: %w", symbol, domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice %s: %w: read body: %w", symbol, domain.ErrProvider, err)
	}

	var chart chartResponse
	decodeErr := json.Unmarshal(body, &chart)

	if chart.Chart.Error != nil && strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
		return 0, fmt.Errorf("yahoo.FetchLastPrice: %w: %s", domain.ErrUnknownSymbol, symbol)
	}
	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("yahoo.FetchLastPrice: %w: %s", domain.ErrUnknownSymbol, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo.FetchLastPrice %s: %w: status %d: %s", symbol, domain.ErrProvider, resp.StatusCode, string(body))
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice %s: %w: %v", symbol, domain.ErrDataFormat, decodeErr)
	}
	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo.FetchLastPrice %s: %w: %s", symbol, domain.ErrProvider, chart.Chart.Error.Description)
	}

	price, ok := lastPrice(chart)
	if !ok {
		return 0, fmt.Errorf("yahoo.FetchLastPrice: %w: %s has no recent price", domain.ErrUnknownSymbol, symbol)
	}

	slog.Debug("yahoo last price", "symbol", symbol, "price", price)
	return domain.Round2(price), nil
}

// lastPrice prefiere regularMarketPrice y cae al último close no nulo.
func lastPrice(chart chartResponse) (float64, bool) {
	if len(chart.Chart.Result) == 0 {
		return 0, false
	}
	r := chart.Chart.Result[0]
	if r.Meta.RegularMarketPrice > 0 {
		return r.Meta.RegularMarketPrice, true
	}
	if len(r.Indicators.Quote) == 0 {
		return 0, false
	}
	closes := r.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil && *closes[i] > 0 {
			return *closes[i], true
		}
	}
	return 0, false
}
