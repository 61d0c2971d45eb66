package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
)

// Verificación en compilación de las interfaces.
var (
	_ ports.HistoryProvider = (*Parquet)(nil)
	_ ports.HistoryProvider = (*Recorder)(nil)
)

// ObservationRecord es el schema Parquet de una observación de adjusted close.
type ObservationRecord struct {
	Date          string `parquet:"date"`
	AdjustedClose string `parquet:"adjusted_close"`
}

// Parquet guarda las series crudas como archivos Parquet, uno por símbolo e intervalo:
//
//	<Dir>/<interval>/<SYMBOL>.parquet
//
// También funciona como HistoryProvider offline que reproduce lo archivado.
type Parquet struct {
	Dir string
}

// NewParquet crea un archivo con raíz en dir.
func NewParquet(dir string) *Parquet {
	return &Parquet{Dir: dir}
}

// Path devuelve el archivo con la serie del símbolo e intervalo.
func (a *Parquet) Path(symbol string, interval domain.Interval) string {
	return filepath.Join(a.Dir, strings.ToLower(string(interval)), strings.ToUpper(symbol)+".parquet")
}

// Write reemplaza la serie archivada del símbolo e intervalo. Las filas se
// escriben en orden ascendente de fecha.
func (a *Parquet) Write(symbol string, interval domain.Interval, series domain.RawTimeSeries) error {
	path := a.Path(symbol, interval)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("archive.Write: mkdir: %w", err)
	}

	records := make([]ObservationRecord, 0, len(series))
	for date, price := range series {
		records = append(records, ObservationRecord{Date: date, AdjustedClose: price})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, records); err != nil {
		return fmt.Errorf("archive.Write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("archive.Write: rename: %w", err)
	}
	return nil
}

// FetchHistory reproduce la serie archivada. Sin archivo devuelve una serie vacía,
// igual que un proveedor remoto ante un símbolo desconocido.
func (a *Parquet) FetchHistory(_ context.Context, symbol string, interval domain.Interval) (domain.RawTimeSeries, error) {
	path := a.Path(symbol, interval)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return domain.RawTimeSeries{}, nil
	}
	records, err := parquet.ReadFile[ObservationRecord](path)
	if err != nil {
		return nil, fmt.Errorf("archive.FetchHistory %s: %w: %w", path, domain.ErrProvider, err)
	}

	series := make(domain.RawTimeSeries, len(records))
	for _, r := range records {
		series[r.Date] = r.AdjustedClose
	}
	return series, nil
}

// Recorder envuelve un HistoryProvider y archiva cada serie no vacía que devuelve.
// Los fallos de escritura se loguean y no hacen fallar el fetch.
type Recorder struct {
	inner   ports.HistoryProvider
	archive *Parquet
}

// NewRecorder crea un Recorder.
func NewRecorder(inner ports.HistoryProvider, archive *Parquet) *Recorder {
	return &Recorder{inner: inner, archive: archive}
}

// FetchHistory delega en el proveedor envuelto y archiva el resultado.
func (r *Recorder) FetchHistory(ctx context.Context, symbol string, interval domain.Interval) (domain.RawTimeSeries, error) {
	series, err := r.inner.FetchHistory(ctx, symbol, interval)
	if err != nil || len(series) == 0 {
		return series, err
	}
	if err := r.archive.Write(symbol, interval, series); err != nil {
		slog.Warn("archive write failed", "symbol", symbol, "interval", interval, "err", err)
	}
	return series, nil
}
