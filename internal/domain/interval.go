package domain

import (
	"fmt"
	"strings"
)

// Interval es la granularidad de la serie histórica. Su valor es también la
// etiqueta de duración que acompaña a los precios de cada YearBucket.
type Interval string

const (
	IntervalMonthly Interval = "MONTHLY"
	IntervalWeekly  Interval = "WEEKLY"
	IntervalDaily   Interval = "DAILY"
)

// Intervals lista los intervalos soportados en orden de granularidad decreciente.
var Intervals = []Interval{IntervalMonthly, IntervalWeekly, IntervalDaily}

// ParseInterval acepta "monthly", "Weekly", "DAILY", etc.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.ToUpper(strings.TrimSpace(s)))
	switch iv {
	case IntervalMonthly, IntervalWeekly, IntervalDaily:
		return iv, nil
	}
	return "", fmt.Errorf("%w: interval %q (want monthly|weekly|daily)", ErrInvalidRequest, s)
}

// Collection devuelve el nombre de la colección donde se guardan los documentos
// de este intervalo (uno por símbolo).
func (i Interval) Collection() string {
	switch i {
	case IntervalMonthly:
		return "StockData_Monthly"
	case IntervalWeekly:
		return "StockData_Weekly"
	case IntervalDaily:
		return "StockData_Daily"
	}
	return "StockData_" + string(i)
}

func (i Interval) String() string { return string(i) }
