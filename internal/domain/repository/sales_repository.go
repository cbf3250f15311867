package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesAggregate ventas agregadas de un producto en un rango de fechas.
// Lo provee el ledger de ventas externo; aquí es de solo lectura.
type SalesAggregate struct {
	ProductID    string
	QuantitySold int
	Revenue      decimal.Decimal
}

// SalesRepository puerto de solo lectura hacia el ledger de ventas externo.
// Las implementaciones restringen a transacciones completadas.
type SalesRepository interface {
	GetSalesByProduct(ctx context.Context, from, to time.Time) ([]SalesAggregate, error)
}
