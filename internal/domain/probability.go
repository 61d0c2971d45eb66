package domain

import "fmt"

// ProbabilityTable guarda, por nivel de confianza, el cambio porcentual que no
// fue superado en esa fracción de periodos históricos.
//   - Call: percentil sobre los cambios positivos (orden ascendente).
//   - Put: percentil sobre los cambios negativos (orden descendente, hacia
//     caídas más profundas).
type ProbabilityTable struct {
	Call          map[ConfidenceLevel]float64 `json:"call"`
	Put           map[ConfidenceLevel]float64 `json:"put"`
	OverallAvgPos float64                     `json:"overall_avg_pos"`
	OverallAvgNeg float64                     `json:"overall_avg_neg"`
}

// BuildProbabilityTable junta los cambios porcentuales de todos los años, filtra
// outliers en cada lado por separado y calcula los percentiles de ConfidenceLevels.
func BuildProbabilityTable(buckets []YearBucket) (ProbabilityTable, error) {
	var pos, neg []float64
	for _, b := range buckets {
		pos = append(pos, b.PositivePercentChanges...)
		neg = append(neg, b.NegativePercentChanges...)
	}

	callSeq, err := filteredPool("positive", pos)
	if err != nil {
		return ProbabilityTable{}, err
	}
	putSeq, err := filteredPool("negative", neg)
	if err != nil {
		return ProbabilityTable{}, err
	}

	table := ProbabilityTable{
		Call:          make(map[ConfidenceLevel]float64, len(ConfidenceLevels)),
		Put:           make(map[ConfidenceLevel]float64, len(ConfidenceLevels)),
		OverallAvgPos: Round2(mean(callSeq)),
		OverallAvgNeg: Round2(mean(putSeq)),
	}

	// FilterOutliers ya devuelve orden ascendente; el lado put se recorre al revés.
	descPut := make([]float64, len(putSeq))
	for i, v := range putSeq {
		descPut[len(putSeq)-1-i] = v
	}

	for _, level := range ConfidenceLevels {
		table.Call[level] = callSeq[PercentileIndex(len(callSeq), level)]
		table.Put[level] = descPut[PercentileIndex(len(descPut), level)]
	}
	return table, nil
}

// PercentileIndex devuelve floor(n*p/100) acotado a [0, n-1]. p = 100 apunta al
// último elemento. n debe ser > 0.
func PercentileIndex(n int, level ConfidenceLevel) int {
	if level >= 100 {
		return n - 1
	}
	idx := n * int(level) / 100
	if idx > n-1 {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func filteredPool(side string, pool []float64) ([]float64, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("domain.BuildProbabilityTable: %w: no %s changes", ErrInsufficientHistory, side)
	}
	filtered, err := FilterOutliers(pool, DefaultOutlierThreshold)
	if err != nil {
		return nil, fmt.Errorf("domain.BuildProbabilityTable: %s changes: %w", side, err)
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("domain.BuildProbabilityTable: %w: no %s changes after filtering", ErrInsufficientHistory, side)
	}
	return filtered, nil
}
