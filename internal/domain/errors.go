package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrProductInactive   = errors.New("producto inactivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto de escritura concurrente")
	ErrNoSalesData       = errors.New("sin datos de ventas en el período")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// la salida dejaría el stock en negativo y no se escribe nada.
type InsufficientStockError struct {
	CurrentStock int // stock disponible al momento del intento
	Requested    int // magnitud solicitada de salida
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.CurrentStock, e.Requested)
}

// Unwrap permite detectar el caso con errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
