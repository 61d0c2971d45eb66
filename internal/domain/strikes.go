package domain

import "fmt"

// Strikes es la proyección de un strangle alrededor del precio actual.
type Strikes struct {
	Call         float64
	Put          float64
	CallWidthPct float64
	PutWidthPct  float64
}

// ProjectStrikes proyecta los strikes call/put para el nivel dado.
//
// Equal-width:       w = max(callPct, putPct); call = P + P·w/100; put = P − P·w/100.
// Independent-width: call = P + P·callPct/100; put = P + P·putPct/100.
//
// En independent-width putPct suele ser negativo, por eso se suma. Los strikes se
// redondean a la unidad. CallWidthPct/PutWidthPct reportan los percentiles de la
// tabla tal cual.
func ProjectStrikes(table ProbabilityTable, level ConfidenceLevel, price float64, strategy Strategy) (Strikes, error) {
	callPct, ok := table.Call[level]
	if !ok {
		return Strikes{}, fmt.Errorf("domain.ProjectStrikes: %w: no call percentile for %s", ErrInvalidRequest, level)
	}
	putPct, ok := table.Put[level]
	if !ok {
		return Strikes{}, fmt.Errorf("domain.ProjectStrikes: %w: no put percentile for %s", ErrInvalidRequest, level)
	}

	s := Strikes{CallWidthPct: callPct, PutWidthPct: putPct}
	switch strategy {
	case StrategyEqualWidth:
		w := max(callPct, putPct)
		s.Call = RoundUnit(price + price*w/100)
		s.Put = RoundUnit(price - price*w/100)
	case StrategyIndependentWidth:
		s.Call = RoundUnit(price + price*callPct/100)
		s.Put = RoundUnit(price + price*putPct/100)
	default:
		return Strikes{}, fmt.Errorf("domain.ProjectStrikes: %w: strategy %q", ErrInvalidRequest, strategy)
	}
	return s, nil
}
