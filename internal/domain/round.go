package domain

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Round2 redondea a 2 decimales (half-even) el valor binario exacto de f:
// 2.675 se guarda como 2.67499999... y queda en 2.67.
func Round2(f float64) float64 {
	v, _ := exactDecimal(f).RoundBank(2).Float64()
	return v
}

// RoundUnit redondea al entero más cercano (half-even) para strikes.
func RoundUnit(f float64) float64 {
	v, _ := exactDecimal(f).RoundBank(0).Float64()
	return v
}

// exactDecimal expande f = m·2^exp sin pérdida. decimal.NewFromFloat usa la
// representación decimal más corta, que no sirve para desempatar.
func exactDecimal(f float64) decimal.Decimal {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	frac, exp := math.Frexp(f)
	m := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(exp)), 0)
	}
	pow5 := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(m.Mul(m, pow5), int32(exp))
}
