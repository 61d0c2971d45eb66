package watch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ironcondor/internal/application/watch"
	"github.com/alejandrodnm/ironcondor/internal/domain"
)

type fakePredictor struct {
	calls int
	got   []domain.PredictRequest
}

func (f *fakePredictor) PredictMany(_ context.Context, reqs []domain.PredictRequest) []domain.BatchResult {
	f.calls++
	f.got = reqs
	out := make([]domain.BatchResult, len(reqs))
	for i, r := range reqs {
		out[i] = domain.BatchResult{Request: r, Prediction: domain.Prediction{Symbol: r.Symbol}}
	}
	return out
}

type fakeNotifier struct {
	results []domain.BatchResult
}

func (f *fakeNotifier) Notify(_ context.Context, results []domain.BatchResult) error {
	f.results = results
	return nil
}

func TestWatcher_RunNowPublishesBatch(t *testing.T) {
	p := &fakePredictor{}
	n := &fakeNotifier{}
	reqs := []domain.PredictRequest{
		{Symbol: "AAPL", Interval: domain.IntervalWeekly, Confidence: 80},
		{Symbol: "JNJ", Interval: domain.IntervalWeekly, Confidence: 80},
	}

	w := watch.New(context.Background(), p, n, reqs)
	w.RunNow()

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, reqs, p.got)
	require.Len(t, n.results, 2)
	assert.Equal(t, "JNJ", n.results[1].Prediction.Symbol)
}

func TestWatcher_RunNowSkipsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePredictor{}
	w := watch.New(ctx, p, &fakeNotifier{}, nil)
	w.RunNow()
	assert.Equal(t, 0, p.calls)
}

func TestWatcher_Register(t *testing.T) {
	w := watch.New(context.Background(), &fakePredictor{}, &fakeNotifier{}, nil)

	require.NoError(t, w.Register("0 30 17 * * 1-5"))
	assert.Error(t, w.Register("not a schedule"))

	w.Start()
	defer w.Stop()
	assert.False(t, w.Next().IsZero())
}
