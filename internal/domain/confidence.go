package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfidenceLevel es un percentil soportado de la tabla de probabilidades (50 = 50%).
type ConfidenceLevel int

// ConfidenceLevels son los niveles que se calculan para cada documento.
var ConfidenceLevels = []ConfidenceLevel{50, 60, 70, 80, 90, 99}

// ParseConfidence acepta "70%" o "70". Solo niveles de ConfidenceLevels.
func ParseConfidence(s string) (ConfidenceLevel, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: confidence %q (want e.g. 70%%)", ErrInvalidRequest, s)
	}
	level := ConfidenceLevel(n)
	if !level.Valid() {
		return 0, fmt.Errorf("%w: confidence %d not in %v", ErrInvalidRequest, n, ConfidenceLevels)
	}
	return level, nil
}

// Valid indica si el nivel está en ConfidenceLevels.
func (c ConfidenceLevel) Valid() bool {
	for _, l := range ConfidenceLevels {
		if l == c {
			return true
		}
	}
	return false
}

func (c ConfidenceLevel) String() string { return strconv.Itoa(int(c)) + "%" }
