package domain

import "time"

// DateLayout es el formato ISO de las fechas de la serie (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// RawTimeSeries es la serie tal como la entrega el proveedor:
// fecha ISO → adjusted close en texto decimal. El orden no importa.
type RawTimeSeries map[string]string

// PricePoint es una observación ya parseada. Solo vive durante la normalización.
type PricePoint struct {
	Date  time.Time
	Price float64
}
