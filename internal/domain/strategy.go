package domain

import (
	"fmt"
	"strings"
)

// Strategy decide cómo se proyectan los strikes a partir de la tabla.
type Strategy string

const (
	// StrategyEqualWidth usa el mismo ancho porcentual a ambos lados del precio.
	StrategyEqualWidth Strategy = "equal"
	// StrategyIndependentWidth usa el percentil de cada lado por separado.
	StrategyIndependentWidth Strategy = "independent"
)

// ParseStrategy acepta "equal"/"same" e "independent"/"different".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equal", "same", "equal-width":
		return StrategyEqualWidth, nil
	case "independent", "different", "independent-width":
		return StrategyIndependentWidth, nil
	}
	return "", fmt.Errorf("%w: strategy %q (want equal|independent)", ErrInvalidRequest, s)
}

func (s Strategy) String() string { return string(s) }
