package archive_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ironcondor/internal/adapters/archive"
	"github.com/alejandrodnm/ironcondor/internal/domain"
)

type stubProvider struct {
	series domain.RawTimeSeries
	err    error
	calls  int
}

func (s *stubProvider) FetchHistory(_ context.Context, _ string, _ domain.Interval) (domain.RawTimeSeries, error) {
	s.calls++
	return s.series, s.err
}

func TestParquet_WriteAndReplay(t *testing.T) {
	a := archive.NewParquet(t.TempDir())
	series := domain.RawTimeSeries{
		"2024-01-31": "180.4770",
		"2023-12-29": "160.7141",
		"2024-02-29": "181.8233",
	}

	require.NoError(t, a.Write("ibm", domain.IntervalMonthly, series))
	assert.FileExists(t, a.Path("IBM", domain.IntervalMonthly))

	got, err := a.FetchHistory(context.Background(), "IBM", domain.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, series, got)
}

func TestParquet_MissingSymbolIsEmpty(t *testing.T) {
	a := archive.NewParquet(t.TempDir())

	got, err := a.FetchHistory(context.Background(), "NOPE", domain.IntervalWeekly)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParquet_WriteReplacesPreviousSeries(t *testing.T) {
	a := archive.NewParquet(t.TempDir())
	require.NoError(t, a.Write("AAPL", domain.IntervalDaily, domain.RawTimeSeries{"2024-01-02": "1", "2024-01-03": "2"}))
	require.NoError(t, a.Write("AAPL", domain.IntervalDaily, domain.RawTimeSeries{"2024-01-04": "3"}))

	got, err := a.FetchHistory(context.Background(), "AAPL", domain.IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, domain.RawTimeSeries{"2024-01-04": "3"}, got)
}

func TestRecorder_ArchivesFetchedSeries(t *testing.T) {
	a := archive.NewParquet(t.TempDir())
	inner := &stubProvider{series: domain.RawTimeSeries{"2024-01-02": "10", "2024-01-03": "11"}}
	r := archive.NewRecorder(inner, a)

	got, err := r.FetchHistory(context.Background(), "MSFT", domain.IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, inner.series, got)

	replayed, err := a.FetchHistory(context.Background(), "MSFT", domain.IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, inner.series, replayed)
}

func TestRecorder_DoesNotArchiveFailures(t *testing.T) {
	a := archive.NewParquet(t.TempDir())
	inner := &stubProvider{err: errors.New("boom")}
	r := archive.NewRecorder(inner, a)

	_, err := r.FetchHistory(context.Background(), "MSFT", domain.IntervalDaily)
	assert.Error(t, err)
	assert.NoFileExists(t, a.Path("MSFT", domain.IntervalDaily))
}
