package domain

import (
	"fmt"
	"math"
	"sort"
)

// DefaultOutlierThreshold es el |z| máximo que sobrevive al filtro.
const DefaultOutlierThreshold = 3.0

// FilterOutliers descarta los valores con |z| > threshold usando media y
// desviación estándar poblacionales, y devuelve el resto ordenado ascendente.
// El input no se modifica.
//
// Con menos de 2 valores, o todos iguales, la desviación es 0 y el z-score no
// existe: devuelve ErrDegenerateDistribution.
func FilterOutliers(values []float64, threshold float64) ([]float64, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("domain.FilterOutliers: %w: %d values", ErrDegenerateDistribution, len(values))
	}

	if minOrZero(values) == maxOrZero(values) {
		return nil, fmt.Errorf("domain.FilterOutliers: %w: all %d values equal", ErrDegenerateDistribution, len(values))
	}

	mu := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - mu) * (v - mu)
	}
	sigma := math.Sqrt(ss / float64(len(values)))
	if sigma == 0 {
		return nil, fmt.Errorf("domain.FilterOutliers: %w: zero standard deviation", ErrDegenerateDistribution)
	}

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if math.Abs((v-mu)/sigma) <= threshold {
			kept = append(kept, v)
		}
	}
	sort.Float64s(kept)
	return kept, nil
}
