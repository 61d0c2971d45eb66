package alphavantage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// mapSeries convierte la respuesta de /query en una RawTimeSeries.
//
//   - "Error Message" → serie vacía (el símbolo no existe).
//   - "Note" / "Information" sin serie → domain.ErrProvider.
//   - serie ausente o mal formada → domain.ErrDataFormat.
func mapSeries(resp queryResponse, spec seriesSpec) (domain.RawTimeSeries, error) {
	if msg, ok := resp[fieldErrorMessage]; ok {
		slog.Debug("alphavantage rejected symbol", "message", rawString(msg))
		return domain.RawTimeSeries{}, nil
	}

	series, ok := resp[spec.key]
	if !ok {
		for _, field := range []string{fieldNote, fieldInformation} {
			if msg, ok := resp[field]; ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrProvider, rawString(msg))
			}
		}
		return nil, fmt.Errorf("%w: missing %q in response", domain.ErrDataFormat, spec.key)
	}

	var rows map[string]observation
	if err := json.Unmarshal(series, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", domain.ErrDataFormat, spec.key, err)
	}

	out := make(domain.RawTimeSeries, len(rows))
	for date, row := range rows {
		price, ok := row[adjustedCloseField]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %q", domain.ErrDataFormat, date, adjustedCloseField)
		}
		out[date] = price
	}
	return out, nil
}

// throttled indica si la respuesta es un aviso de límite de frecuencia sin serie.
// Un "Information" por API key inválida no se reintenta.
func throttled(resp queryResponse, spec seriesSpec) bool {
	if _, ok := resp[spec.key]; ok {
		return false
	}
	if _, ok := resp[fieldNote]; ok {
		return true
	}
	if msg, ok := resp[fieldInformation]; ok {
		text := strings.ToLower(rawString(msg))
		return strings.Contains(text, "frequency") || strings.Contains(text, "rate limit")
	}
	return false
}

func rawString(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return strings.TrimSpace(string(msg))
	}
	return s
}
