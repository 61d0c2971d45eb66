package ports

import (
	"context"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// DocumentStore persiste un SymbolDocument por símbolo y por intervalo.
type DocumentStore interface {
	// Get devuelve el documento cacheado. ok = false si nunca se construyó.
	Get(ctx context.Context, interval domain.Interval, symbol string) (doc domain.SymbolDocument, ok bool, err error)

	// Put reemplaza el documento completo (upsert, sin merge).
	Put(ctx context.Context, doc domain.SymbolDocument) error

	// DeleteAll vacía la colección de un intervalo. Devuelve cuántos documentos borró.
	DeleteAll(ctx context.Context, interval domain.Interval) (int64, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
