package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/ironcondor/internal/application/watch"
	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

// runWatch corre la watchlist una vez al arrancar y luego según el cron,
// hasta que se cancele el contexto.
func runWatch(ctx context.Context, spec string, predictor watch.Predictor, notifier ports.Notifier, reqs []domain.PredictRequest) error {
	w := watch.New(ctx, predictor, notifier, reqs)
	if err := w.Register(spec); err != nil {
		return err
	}

	w.RunNow()
	w.Start()
	defer w.Stop()

	slog.Info("waiting for schedule", "cron", spec, "next", w.Next())
	<-ctx.Done()
	return nil
}
