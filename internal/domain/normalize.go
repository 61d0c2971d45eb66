package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalize convierte una serie cruda en buckets anuales ordenados por año.
//
// Dos pasadas:
//  1. parsea, ordena ascendente por fecha y reparte los precios por año;
//  2. recorre los pares consecutivos (older, newer) y asigna width = newer - older
//     y pct = Round2((newer-older)/older*100) al bucket del año de newer.
//
// El par que cruza de diciembre a enero pertenece al año nuevo. Un año con una
// sola observación y sin par entrante queda con secuencias vacías.
func Normalize(raw RawTimeSeries, interval Interval) ([]YearBucket, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("domain.Normalize: %w: empty series", ErrDataFormat)
	}

	points, err := parseSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("domain.Normalize: %w", err)
	}

	buckets := make(map[int]*YearBucket)
	for _, p := range points {
		year := p.Date.Year()
		b, ok := buckets[year]
		if !ok {
			b = newYearBucket(year, interval)
			buckets[year] = b
		}
		b.Prices[p.Date.Format(DateLayout)] = p.Price
	}

	for i := 1; i < len(points); i++ {
		older, newer := points[i-1], points[i]
		width, pct := priceChange(older.Price, newer.Price)
		buckets[newer.Date.Year()].addChange(width, pct)
	}

	years := make([]int, 0, len(buckets))
	for y := range buckets {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearBucket, 0, len(years))
	for _, y := range years {
		b := buckets[y]
		b.Aggregates = Aggregate(*b)
		out = append(out, *b)
	}
	return out, nil
}

// parseSeries valida cada entrada y devuelve los puntos en orden ascendente.
func parseSeries(raw RawTimeSeries) ([]PricePoint, error) {
	points := make([]PricePoint, 0, len(raw))
	for key, value := range raw {
		date, err := time.Parse(DateLayout, strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: date %q: %v", ErrDataFormat, key, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: price %q on %s: %v", ErrDataFormat, value, key, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price %s on %s", ErrDataFormat, value, key)
		}
		f, _ := price.Float64()
		points = append(points, PricePoint{Date: date, Price: f})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// priceChange devuelve la diferencia absoluta y el cambio porcentual entre dos
// precios. El porcentaje se calcula en float64 y se redondea con Round2.
// Si older es 0 el cambio porcentual es 0.
func priceChange(older, newer float64) (width, pct float64) {
	width, _ = decimal.NewFromFloat(newer).Sub(decimal.NewFromFloat(older)).Float64()
	if older == 0 {
		return width, 0
	}
	return width, Round2((newer - older) / older * 100)
}
