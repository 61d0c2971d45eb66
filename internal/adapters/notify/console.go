package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/ironcondor/internal/domain"
	"github.com/alejandrodnm/ironcondor/internal/ports"
	"github.com/olekukonko/tablewriter"
)

var _ ports.Notifier = (*Console)(nil)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el lote en el modo configurado.
func (c *Console) Notify(_ context.Context, results []domain.BatchResult) error {
	if len(results) == 0 {
		fmt.Fprintf(c.out, "[%s] No predictions\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printTable(results)
	} else {
		c.printCompact(results)
	}
	return nil
}

// printCompact imprime una línea por símbolo.
func (c *Console) printCompact(results []domain.BatchResult) {
	now := time.Now().Format("15:04:05")
	ok, failed := countOutcomes(results)
	fmt.Fprintf(c.out, "[%s] %d predictions → ok:%d failed:%d\n", now, len(results), ok, failed)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(c.out, "  %-6s %-7s ERROR %s\n", strings.ToUpper(r.Request.Symbol), r.Request.Interval, r.Err)
			continue
		}
		p := r.Prediction
		fmt.Fprintf(c.out, "  %-6s %-7s %s  put $%s  [$%.2f]  call $%s  (%s, data %s)\n",
			p.Symbol, p.Interval, p.ConfidenceLevel,
			strike(p.PredictedPut), p.LastUpdatedPrice, strike(p.PredictedCall),
			p.Strategy, p.LastUpdatedDate)
	}
}

// printTable imprime la tabla completa de predicciones.
func (c *Console) printTable(results []domain.BatchResult) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Interval", "Conf", "Data", "Price", "Put", "Call", "Put %", "Call %", "Error")

	for i, r := range results {
		if r.Err != nil {
			table.Append(
				fmt.Sprintf("%d", i+1),
				strings.ToUpper(r.Request.Symbol),
				r.Request.Interval.String(),
				r.Request.Confidence.String(),
				"-", "-", "-", "-", "-", "-",
				truncate(r.Err.Error(), 48),
			)
			continue
		}
		p := r.Prediction
		table.Append(
			fmt.Sprintf("%d", i+1),
			p.Symbol,
			p.Interval.String(),
			p.ConfidenceLevel.String(),
			p.LastUpdatedDate,
			fmt.Sprintf("$%.2f", p.LastUpdatedPrice),
			"$"+strike(p.PredictedPut),
			"$"+strike(p.PredictedCall),
			fmt.Sprintf("%.2f%%", p.PutWidthPct),
			fmt.Sprintf("%.2f%%", p.CallWidthPct),
			"",
		)
	}

	table.Render()
}

// PrintProbabilities imprime la tabla de percentiles de un documento.
func (c *Console) PrintProbabilities(doc domain.SymbolDocument) {
	fmt.Fprintf(c.out, "\n=== %s %s: %d years, data through %s ===\n",
		doc.Symbol, doc.Interval, len(doc.YearBuckets), doc.LastObservedDate)

	table := tablewriter.NewWriter(c.out)
	table.Header("Level", "Call %", "Put %")
	for _, level := range domain.ConfidenceLevels {
		table.Append(
			level.String(),
			fmt.Sprintf("%.2f", doc.Table.Call[level]),
			fmt.Sprintf("%.2f", doc.Table.Put[level]),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  avg up move: %.2f%%  avg down move: %.2f%%\n\n",
		doc.Table.OverallAvgPos, doc.Table.OverallAvgNeg)
}

// PrintRebuilds imprime el historial de rebuilds.
func (c *Console) PrintRebuilds(records []domain.RebuildRecord) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No rebuilds recorded")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Built", "Symbol", "Interval", "Years", "Data through", "Build")
	for _, r := range records {
		table.Append(
			r.BuiltAt.Local().Format("2006-01-02 15:04"),
			r.Symbol,
			r.Interval.String(),
			fmt.Sprintf("%d", r.Buckets),
			r.LastObserved,
			shortID(r.BuildID),
		)
	}
	table.Render()
}

// --- helpers ---

func countOutcomes(results []domain.BatchResult) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return
}

func strike(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
