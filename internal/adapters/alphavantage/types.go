package alphavantage

import (
	"encoding/json"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

// Campos de error que Alpha Vantage devuelve con status 200.
const (
	fieldErrorMessage = "Error Message" // símbolo inválido
	fieldNote         = "Note"          // throttling
	fieldInformation  = "Information"   // throttling o API key inválida
)

// adjustedCloseField es la clave del precio ajustado dentro de cada observación.
const adjustedCloseField = "5. adjusted close"

// seriesSpec describe cómo pedir y leer la serie de un intervalo.
type seriesSpec struct {
	function string // parámetro function de /query
	key      string // clave JSON que contiene la serie
}

var seriesByInterval = map[domain.Interval]seriesSpec{
	domain.IntervalMonthly: {function: "TIME_SERIES_MONTHLY_ADJUSTED", key: "Monthly Adjusted Time Series"},
	domain.IntervalWeekly:  {function: "TIME_SERIES_WEEKLY_ADJUSTED", key: "Weekly Adjusted Time Series"},
	domain.IntervalDaily:   {function: "TIME_SERIES_DAILY_ADJUSTED", key: "Time Series (Daily)"},
}

// queryResponse es la respuesta cruda de /query: la serie viene bajo una clave
// que depende del intervalo, junto a "Meta Data" o a un campo de error.
type queryResponse map[string]json.RawMessage

// observation es una fila de la serie ("1. open", ..., "5. adjusted close", ...).
type observation map[string]string
