package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// documentReader es la parte del store que necesita printProbabilities.
type documentReader interface {
	Get(ctx context.Context, interval domain.Interval, symbol string) (domain.SymbolDocument, bool, error)
}

type probabilityPrinter interface {
	PrintProbabilities(doc domain.SymbolDocument)
}

// printProbabilities imprime la tabla del mismo build que produjo cada predicción.
// Lee del store sin reconstruir; si el documento no está o es de otro build lo salta.
func printProbabilities(ctx context.Context, store documentReader, out probabilityPrinter, results []domain.BatchResult) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		p := r.Prediction
		doc, ok, err := store.Get(ctx, p.Interval, p.Symbol)
		switch {
		case err != nil:
			slog.Warn("document unavailable", "symbol", p.Symbol, "err", err)
		case !ok:
			slog.Warn("document not persisted", "symbol", p.Symbol, "interval", p.Interval)
		case doc.BuildID != p.BuildID:
			slog.Warn("document replaced since prediction", "symbol", p.Symbol, "build_id", p.BuildID, "stored", doc.BuildID)
		default:
			out.PrintProbabilities(doc)
		}
	}
}
