package domain

import "time"

// SymbolDocument es el estado cacheado de un símbolo en un intervalo.
// Se reemplaza entero en cada rebuild, nunca se mezcla con una versión previa.
type SymbolDocument struct {
	Symbol      string           `json:"symbol"`
	Interval    Interval         `json:"interval"`
	YearBuckets []YearBucket     `json:"year_buckets"` // ascendente por año
	Table       ProbabilityTable `json:"probabilities"`

	LastObservedDate  string  `json:"last_observed_date"` // YYYY-MM-DD
	LastObservedPrice float64 `json:"last_observed_price"`

	BuildID string    `json:"build_id"`
	BuiltAt time.Time `json:"built_at"`
}

// BuildDocument corre normalización, agregados y tabla sobre una serie completa.
// No asigna BuildID ni BuiltAt: eso lo decide quien persiste.
func BuildDocument(symbol string, interval Interval, raw RawTimeSeries) (SymbolDocument, error) {
	buckets, err := Normalize(raw, interval)
	if err != nil {
		return SymbolDocument{}, err
	}
	table, err := BuildProbabilityTable(buckets)
	if err != nil {
		return SymbolDocument{}, err
	}

	doc := SymbolDocument{
		Symbol:      symbol,
		Interval:    interval,
		YearBuckets: buckets,
		Table:       table,
	}
	doc.LastObservedDate, doc.LastObservedPrice = latestObservation(buckets)
	return doc, nil
}

// IsFresh indica si la última observación es exactamente del día anterior a today.
func (d SymbolDocument) IsFresh(today time.Time) bool {
	if d.LastObservedDate == "" {
		return false
	}
	yesterday := today.AddDate(0, 0, -1).Format(DateLayout)
	return d.LastObservedDate == yesterday
}

// latestObservation busca la fecha más reciente en el último bucket.
func latestObservation(buckets []YearBucket) (string, float64) {
	if len(buckets) == 0 {
		return "", 0
	}
	last := buckets[len(buckets)-1]
	var date string
	for d := range last.Prices {
		if d > date {
			date = d
		}
	}
	return date, last.Prices[date]
}

// RebuildRecord es una entrada del historial de rebuilds.
type RebuildRecord struct {
	BuildID      string
	Interval     Interval
	Symbol       string
	Buckets      int
	LastObserved string
	BuiltAt      time.Time
}
