package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

// Config contiene la configuración del engine.
type Config struct {
	// Location define el "hoy" contra el que se evalúa la frescura de un documento.
	Location *time.Location
	// Workers es el tamaño del pool de PredictMany (0 = NumCPU*2).
	Workers int
}

// DefaultConfig devuelve la configuración por defecto (hora de Nueva York).
func DefaultConfig() Config {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return Config{Location: loc, Workers: 4}
}

// Engine orquesta caché, rebuild y proyección de strikes.
//
// Un documento es fresco si su última observación es de ayer; si no existe o está
// viejo se reconstruye entero desde el HistoryProvider. Los rebuilds concurrentes
// del mismo (intervalo, símbolo) se coalescen en uno solo.
type Engine struct {
	cfg     Config
	history ports.HistoryProvider
	prices  ports.PriceProvider
	store   ports.DocumentStore
	now     func() time.Time
	group   singleflight.Group
}

// New crea un Engine con todas las dependencias inyectadas.
func New(cfg Config, history ports.HistoryProvider, prices ports.PriceProvider, store ports.DocumentStore) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{
		cfg:     cfg,
		history: history,
		prices:  prices,
		store:   store,
		now:     time.Now,
	}
}

// SetClock reemplaza el reloj del engine (tests y replays).
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Predict calcula los strikes call/put del símbolo al nivel de confianza pedido.
func (e *Engine) Predict(ctx context.Context, req domain.PredictRequest) (domain.Prediction, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return domain.Prediction{}, err
	}

	price, err := e.prices.FetchLastPrice(ctx, req.Symbol)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("engine.Predict %s: last price: %w", req.Symbol, err)
	}

	doc, err := e.Document(ctx, req.Interval, req.Symbol)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("engine.Predict %s: %w", req.Symbol, err)
	}

	if price <= 0 {
		price = doc.LastObservedPrice
	}

	strikes, err := domain.ProjectStrikes(doc.Table, req.Confidence, price, req.Strategy)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("engine.Predict %s: %w", req.Symbol, err)
	}

	return domain.Prediction{
		Symbol:           req.Symbol,
		Interval:         req.Interval,
		Strategy:         req.Strategy,
		LastUpdatedDate:  doc.LastObservedDate,
		LastUpdatedPrice: price,
		PredictedPut:     strikes.Put,
		PredictedCall:    strikes.Call,
		CallWidthPct:     strikes.CallWidthPct,
		PutWidthPct:      strikes.PutWidthPct,
		ConfidenceLevel:  req.Confidence,
		BuildID:          doc.BuildID,
	}, nil
}

// Document devuelve el documento del símbolo, reconstruyéndolo si falta o está viejo.
// El intervalo se normaliza igual que en Predict.
func (e *Engine) Document(ctx context.Context, interval domain.Interval, symbol string) (domain.SymbolDocument, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	interval, err := domain.ParseInterval(string(interval))
	if err != nil {
		return domain.SymbolDocument{}, fmt.Errorf("engine.Document: %w", err)
	}

	doc, ok, err := e.store.Get(ctx, interval, symbol)
	if err != nil {
		return domain.SymbolDocument{}, fmt.Errorf("engine.Document: %w", err)
	}
	if ok && doc.IsFresh(e.today()) {
		slog.Debug("document fresh", "symbol", symbol, "interval", interval, "last", doc.LastObservedDate)
		return doc, nil
	}
	return e.rebuild(ctx, interval, symbol)
}

// Purge borra todos los documentos del intervalo.
func (e *Engine) Purge(ctx context.Context, interval domain.Interval) (int64, error) {
	n, err := e.store.DeleteAll(ctx, interval)
	if err != nil {
		return 0, fmt.Errorf("engine.Purge: %w", err)
	}
	slog.Info("collection purged", "collection", interval.Collection(), "documents", n)
	return n, nil
}

// rebuild coalesce los rebuilds concurrentes del mismo documento. Cada caller
// espera con su propio contexto; el rebuild compartido no se cancela si uno
// de ellos se va.
func (e *Engine) rebuild(ctx context.Context, interval domain.Interval, symbol string) (domain.SymbolDocument, error) {
	key := interval.Collection() + "/" + symbol
	ch := e.group.DoChan(key, func() (any, error) {
		return e.doRebuild(context.WithoutCancel(ctx), interval, symbol)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.SymbolDocument{}, res.Err
		}
		if res.Shared {
			slog.Debug("rebuild shared", "symbol", symbol, "interval", interval)
		}
		return res.Val.(domain.SymbolDocument), nil
	case <-ctx.Done():
		return domain.SymbolDocument{}, ctx.Err()
	}
}

func (e *Engine) doRebuild(ctx context.Context, interval domain.Interval, symbol string) (domain.SymbolDocument, error) {
	// Otro caller pudo terminar un rebuild entre nuestra lectura y el DoChan.
	if doc, ok, err := e.store.Get(ctx, interval, symbol); err == nil && ok && doc.IsFresh(e.today()) {
		return doc, nil
	}

	start := time.Now()
	raw, err := e.history.FetchHistory(ctx, symbol, interval)
	if err != nil {
		return domain.SymbolDocument{}, fmt.Errorf("fetch history: %w", err)
	}
	if len(raw) == 0 {
		return domain.SymbolDocument{}, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	doc, err := domain.BuildDocument(symbol, interval, raw)
	if err != nil {
		return domain.SymbolDocument{}, err
	}
	doc.BuildID = uuid.NewString()
	doc.BuiltAt = e.now().UTC()

	if err := e.store.Put(ctx, doc); err != nil {
		slog.Warn("document not persisted", "symbol", symbol, "interval", interval, "err", err)
	}

	slog.Info("document rebuilt",
		"symbol", symbol,
		"interval", interval,
		"build_id", doc.BuildID,
		"points", len(raw),
		"years", len(doc.YearBuckets),
		"last", doc.LastObservedDate,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return doc, nil
}

func (e *Engine) today() time.Time {
	return e.now().In(e.cfg.Location)
}

// normalizeRequest valida los parámetros y normaliza el símbolo.
func normalizeRequest(req domain.PredictRequest) (domain.PredictRequest, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return req, fmt.Errorf("engine: %w: empty symbol", domain.ErrInvalidRequest)
	}
	interval, err := domain.ParseInterval(string(req.Interval))
	if err != nil {
		return req, fmt.Errorf("engine: %w", err)
	}
	req.Interval = interval
	if !req.Confidence.Valid() {
		return req, fmt.Errorf("engine: %w: confidence %d not in %v", domain.ErrInvalidRequest, req.Confidence, domain.ConfidenceLevels)
	}
	if req.Strategy == "" {
		req.Strategy = domain.StrategyIndependentWidth
	}
	strategy, err := domain.ParseStrategy(string(req.Strategy))
	if err != nil {
		return req, fmt.Errorf("engine: %w", err)
	}
	req.Strategy = strategy
	return req, nil
}
