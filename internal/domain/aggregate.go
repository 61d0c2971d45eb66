package domain

// Aggregate calcula los resúmenes de un bucket a partir de sus secuencias.
// Es pura e idempotente: no modifica el bucket.
func Aggregate(b YearBucket) Aggregates {
	return Aggregates{
		AvgPosWidth: mean2(b.PositiveWidths),
		AvgNegWidth: mean2(b.NegativeWidths),
		MaxPosWidth: maxOrZero(b.PositiveWidths),
		MinNegWidth: minOrZero(b.NegativeWidths),
		AvgPosPct:   mean2(b.PositivePercentChanges),
		AvgNegPct:   mean2(b.NegativePercentChanges),
		MaxPosPct:   maxOrZero(b.PositivePercentChanges),
		MinNegPct:   minOrZero(b.NegativePercentChanges),
	}
}

// mean2 es la media aritmética redondeada a 2 decimales (0 si está vacía).
func mean2(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Round2(mean(xs))
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
