package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

// Predictor es lo que el watcher necesita del engine.
type Predictor interface {
	PredictMany(ctx context.Context, reqs []domain.PredictRequest) []domain.BatchResult
}

// Watcher recalcula una watchlist en un horario cron y publica el resultado.
type Watcher struct {
	cron      *cron.Cron
	predictor Predictor
	notifier  ports.Notifier
	requests  []domain.PredictRequest
	ctx       context.Context
}

// New crea un Watcher. Los specs cron llevan segundos ("0 30 17 * * 1-5").
func New(ctx context.Context, predictor Predictor, notifier ports.Notifier, requests []domain.PredictRequest) *Watcher {
	return &Watcher{
		cron:      cron.New(cron.WithSeconds()),
		predictor: predictor,
		notifier:  notifier,
		requests:  requests,
		ctx:       ctx,
	}
}

// Register agenda la watchlist con el spec dado.
func (w *Watcher) Register(spec string) error {
	if _, err := w.cron.AddFunc(spec, w.RunNow); err != nil {
		return fmt.Errorf("watch.Register %q: %w", spec, err)
	}
	return nil
}

// Start arranca el scheduler.
func (w *Watcher) Start() {
	w.cron.Start()
	slog.Info("watcher started", "symbols", len(w.requests), "next", w.Next())
}

// Stop detiene el scheduler y espera a que termine la corrida en curso.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	slog.Info("watcher stopped")
}

// Next devuelve la próxima ejecución agendada (cero si no hay ninguna).
func (w *Watcher) Next() time.Time {
	var next time.Time
	for _, e := range w.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}

// RunNow corre la watchlist inmediatamente.
func (w *Watcher) RunNow() {
	if w.ctx.Err() != nil {
		return
	}
	start := time.Now()
	results := w.predictor.PredictMany(w.ctx, w.requests)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("watchlist refreshed",
		"requests", len(results),
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if err := w.notifier.Notify(w.ctx, results); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}
