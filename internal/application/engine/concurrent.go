package engine

// concurrent.go: worker pool para predicciones en lote.
//
// Los símbolos distintos se procesan en paralelo; dos ítems del mismo símbolo e
// intervalo comparten un único rebuild gracias al singleflight del Engine.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// PredictMany ejecuta todas las predicciones con un worker pool. El error de un
// ítem queda en su BatchResult y no aborta el lote. El orden de salida es el de
// entrada.
func (e *Engine) PredictMany(ctx context.Context, reqs []domain.PredictRequest) []domain.BatchResult {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	results := make([]domain.BatchResult, len(reqs))
	workCh := make(chan int, len(reqs))

	// Worker pool: cada worker toma índices de workCh y escribe su slot de results.
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				req := reqs[idx]
				pred, err := e.Predict(ctx, req)
				if err != nil {
					slog.Debug("predict failed", "symbol", req.Symbol, "interval", req.Interval, "err", err)
				}
				results[idx] = domain.BatchResult{Request: req, Prediction: pred, Err: err}
			}
		}()
	}

	for idx := range reqs {
		workCh <- idx
	}
	close(workCh)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Debug("batch prediction complete",
		"requests", len(reqs),
		"failed", failed,
		"workers", workers,
	)
	return results
}
