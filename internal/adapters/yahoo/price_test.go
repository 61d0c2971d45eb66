package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alejandrodnm/ironcondor/internal/adapters/yahoo"
	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLastPrice_RegularMarketPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":187.456},
			"indicators":{"quote":[{"close":[186.1]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	price, err := yahoo.NewPriceClient(srv.URL).FetchLastPrice(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 187.46, price)
}

func TestFetchLastPrice_FallsBackToLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"MSFT"},
			"indicators":{"quote":[{"close":[410.2, null]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	price, err := yahoo.NewPriceClient(srv.URL).FetchLastPrice(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 410.2, price)
}

func TestFetchLastPrice_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := yahoo.NewPriceClient(srv.URL).FetchLastPrice(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
}

func TestFetchLastPrice_EmptyResultIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := yahoo.NewPriceClient(srv.URL).FetchLastPrice(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
}

func TestFetchLastPrice_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := yahoo.NewPriceClient(srv.URL).FetchLastPrice(context.Background(), "AAPL")
	assert.ErrorIs(t, err, domain.ErrProvider)
}
