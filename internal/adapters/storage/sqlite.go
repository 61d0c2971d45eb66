package storage

// sqlite.go: un documento por (colección, símbolo), reemplazado entero en cada rebuild.
//
// Estrategia:
//   - `documents`: UNA fila por símbolo y colección (UPSERT). El SymbolDocument va
//     serializado en JSON; las columnas sueltas solo sirven para consultas rápidas.
//   - `rebuilds`: registro ligero de cada rebuild (build_id, buckets, última fecha).
//   - Cache en memoria: las lecturas repetidas del mismo símbolo no tocan disco.
//   - Prune automático al arrancar: rebuilds > 90d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
	_ "modernc.org/sqlite"
)

var _ ports.DocumentStore = (*SQLiteStorage)(nil)

const schema = `
-- Un documento por símbolo en cada colección (StockData_Monthly, ...)
CREATE TABLE IF NOT EXISTS documents (
    collection    TEXT     NOT NULL,
    symbol        TEXT     NOT NULL,
    last_observed TEXT     NOT NULL DEFAULT '',
    build_id      TEXT     NOT NULL,
    built_at      DATETIME NOT NULL,
    body          TEXT     NOT NULL,
    PRIMARY KEY (collection, symbol)
);

-- Historial de rebuilds
CREATE TABLE IF NOT EXISTS rebuilds (
    build_id      TEXT PRIMARY KEY,
    collection    TEXT     NOT NULL,
    symbol        TEXT     NOT NULL,
    buckets       INTEGER  NOT NULL DEFAULT 0,
    last_observed TEXT     NOT NULL DEFAULT '',
    built_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rebuilds_at  ON rebuilds(built_at DESC);
CREATE INDEX IF NOT EXISTS idx_rebuilds_sym ON rebuilds(symbol);
`

const retentionRebuilds = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.DocumentStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]domain.SymbolDocument // colección/símbolo → documento
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia el historial antiguo.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[string]domain.SymbolDocument),
	}
	s.pruneOld(context.Background())
	return s, nil
}

// Get devuelve el documento del símbolo en la colección del intervalo.
func (s *SQLiteStorage) Get(ctx context.Context, interval domain.Interval, symbol string) (domain.SymbolDocument, bool, error) {
	key := cacheKey(interval, symbol)

	s.mu.Lock()
	doc, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return doc, true, nil
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND symbol = ?`,
		interval.Collection(), symbol,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SymbolDocument{}, false, nil
	}
	if err != nil {
		return domain.SymbolDocument{}, false, fmt.Errorf("storage.Get %s/%s: query: %w", interval.Collection(), symbol, err)
	}

	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return domain.SymbolDocument{}, false, fmt.Errorf("storage.Get %s/%s: decode: %w", interval.Collection(), symbol, err)
	}

	s.mu.Lock()
	s.cache[key] = doc
	s.mu.Unlock()
	return doc, true, nil
}

// Put reemplaza el documento completo y registra el rebuild en la misma transacción.
func (s *SQLiteStorage) Put(ctx context.Context, doc domain.SymbolDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("storage.Put: encode %s: %w", doc.Symbol, err)
	}

	builtAt := doc.BuiltAt.UTC()
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}
	collection := doc.Interval.Collection()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Put: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (collection, symbol, last_observed, build_id, built_at, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, symbol) DO UPDATE SET
			last_observed = excluded.last_observed,
			build_id      = excluded.build_id,
			built_at      = excluded.built_at,
			body          = excluded.body
	`, collection, doc.Symbol, doc.LastObservedDate, doc.BuildID, builtAt, string(body)); err != nil {
		return fmt.Errorf("storage.Put: upsert %s/%s: %w", collection, doc.Symbol, err)
	}

	if doc.BuildID != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO rebuilds (build_id, collection, symbol, buckets, last_observed, built_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, doc.BuildID, collection, doc.Symbol, len(doc.YearBuckets), doc.LastObservedDate, builtAt); err != nil {
			return fmt.Errorf("storage.Put: insert rebuild %s: %w", doc.BuildID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Put: commit: %w", err)
	}

	s.mu.Lock()
	s.cache[cacheKey(doc.Interval, doc.Symbol)] = doc
	s.mu.Unlock()
	return nil
}

// DeleteAll vacía la colección del intervalo.
func (s *SQLiteStorage) DeleteAll(ctx context.Context, interval domain.Interval) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, interval.Collection())
	if err != nil {
		return 0, fmt.Errorf("storage.DeleteAll %s: %w", interval.Collection(), err)
	}
	n, _ := res.RowsAffected()

	s.mu.Lock()
	for key, doc := range s.cache {
		if doc.Interval == interval {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()
	return n, nil
}

// RecentRebuilds devuelve los últimos rebuilds, más recientes primero.
func (s *SQLiteStorage) RecentRebuilds(ctx context.Context, limit int) ([]domain.RebuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT build_id, collection, symbol, buckets, last_observed, built_at
		FROM rebuilds
		ORDER BY built_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRebuilds: query: %w", err)
	}
	defer rows.Close()

	var out []domain.RebuildRecord
	for rows.Next() {
		var r domain.RebuildRecord
		var collection, builtAt string
		if err := rows.Scan(&r.BuildID, &collection, &r.Symbol, &r.Buckets, &r.LastObserved, &builtAt); err != nil {
			return nil, fmt.Errorf("storage.RecentRebuilds: scan row: %w", err)
		}
		r.Interval = intervalForCollection(collection)
		r.BuiltAt = parseTime(builtAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func cacheKey(interval domain.Interval, symbol string) string {
	return interval.Collection() + "/" + symbol
}

func intervalForCollection(collection string) domain.Interval {
	for _, iv := range domain.Intervals {
		if iv.Collection() == collection {
			return iv
		}
	}
	return domain.Interval(collection)
}

// parseTime acepta RFC3339 y los formatos de texto que escribe el driver.
func parseTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999 -0700 MST", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// pruneOld elimina historial antiguo para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRebuilds)
	s.db.ExecContext(ctx, `DELETE FROM rebuilds WHERE built_at < ?`, cutoff)
}
