package domain

import "errors"

// Errores del pipeline de predicción. Cada capa los envuelve con contexto
// usando fmt.Errorf("...: %w", err); los callers los distinguen con errors.Is.
var (
	// ErrUnknownSymbol: el símbolo no resuelve en el proveedor (serie vacía o ticker inexistente).
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrProvider: fallo de red, autenticación o throttling del proveedor upstream.
	ErrProvider = errors.New("provider error")

	// ErrDataFormat: la serie upstream no tiene la forma esperada.
	ErrDataFormat = errors.New("data format error")

	// ErrDegenerateDistribution: desviación estándar cero, el z-score no está definido.
	ErrDegenerateDistribution = errors.New("degenerate distribution")

	// ErrInsufficientHistory: no quedan observaciones para calcular percentiles.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInvalidRequest: parámetros de entrada fuera del dominio soportado.
	ErrInvalidRequest = errors.New("invalid request")
)
