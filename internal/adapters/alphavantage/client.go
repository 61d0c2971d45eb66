package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

const (
	defaultBase = "https://www.alphavantage.co"

	// Free tier: 5 requests/minuto. Premium se configura por requests_per_minute.
	defaultRequestsPerMinute = 5

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond

	// Un "Note" de throttling llega con status 200: se espera a que se libere la
	// ventana del minuto antes de reintentar.
	defaultThrottleRetries = 2
	defaultThrottleWait    = 20 * time.Second
)

// Client es el HTTP client de Alpha Vantage con rate limiting y retries.
type Client struct {
	http    *http.Client
	base    string
	apiKey  string
	limiter *rate.Limiter

	throttleRetries int
	throttleWait    time.Duration
}

// NewClient crea un Client con el base URL y la API key dados.
// Si base está vacío usa el URL de producción; requestsPerMinute <= 0 usa el límite free.
func NewClient(base, apiKey string, requestsPerMinute int) *Client {
	if base == "" {
		base = defaultBase
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		base:    base,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),

		throttleRetries: defaultThrottleRetries,
		throttleWait:    defaultThrottleWait,
	}
}

// SetThrottleRetry cambia cuántas veces se reintenta una respuesta de throttling
// y cuánto se espera entre intentos.
func (c *Client) SetThrottleRetry(retries int, wait time.Duration) {
	c.throttleRetries = retries
	c.throttleWait = wait
}

// waitThrottle espera throttleWait o hasta que se cancele el contexto.
func (c *Client) waitThrottle(ctx context.Context) error {
	select {
	case <-time.After(c.throttleWait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// get hace un GET con rate limiting y retries. Todos los fallos salen envueltos
// en domain.ErrProvider.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProvider, err)
	}
	return nil
}

// doWithRetry ejecuta la función con backoff exponencial.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by alphavantage", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
