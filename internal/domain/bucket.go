package domain

// YearBucket agrupa las observaciones de un año calendario y las variaciones
// entre pares consecutivos cuya fecha más reciente cae en ese año.
//
// Invariante: PositiveWidths[i] y PositivePercentChanges[i] describen el mismo par
// (idem para el lado negativo), y Aggregates siempre se deriva de las secuencias.
type YearBucket struct {
	Year     int                `json:"year"`
	Interval Interval           `json:"interval"`
	Prices   map[string]float64 `json:"prices"`

	PositiveWidths         []float64 `json:"positive_widths"`
	NegativeWidths         []float64 `json:"negative_widths"`
	PositivePercentChanges []float64 `json:"positive_pct"`
	NegativePercentChanges []float64 `json:"negative_pct"`

	Aggregates Aggregates `json:"aggregates"`
}

// Aggregates son los resúmenes por año. Promedios redondeados a 2 decimales;
// cualquier valor de una secuencia vacía es 0.
type Aggregates struct {
	AvgPosWidth float64 `json:"avg_pos_width"`
	AvgNegWidth float64 `json:"avg_neg_width"`
	MaxPosWidth float64 `json:"max_pos_width"`
	MinNegWidth float64 `json:"min_neg_width"`
	AvgPosPct   float64 `json:"avg_pos_pct"`
	AvgNegPct   float64 `json:"avg_neg_pct"`
	MaxPosPct   float64 `json:"max_pos_pct"`
	MinNegPct   float64 `json:"min_neg_pct"`
}

// newYearBucket crea un bucket vacío con las secuencias inicializadas, para que
// se serialicen como [] y no como null.
func newYearBucket(year int, interval Interval) *YearBucket {
	return &YearBucket{
		Year:                   year,
		Interval:               interval,
		Prices:                 make(map[string]float64),
		PositiveWidths:         []float64{},
		NegativeWidths:         []float64{},
		PositivePercentChanges: []float64{},
		NegativePercentChanges: []float64{},
	}
}

// addChange registra un par consecutivo en el lado que le corresponde.
// Un width de 0 cuenta como positivo.
func (b *YearBucket) addChange(width, pct float64) {
	if width >= 0 {
		b.PositiveWidths = append(b.PositiveWidths, width)
		b.PositivePercentChanges = append(b.PositivePercentChanges, pct)
		return
	}
	b.NegativeWidths = append(b.NegativeWidths, width)
	b.NegativePercentChanges = append(b.NegativePercentChanges, pct)
}
