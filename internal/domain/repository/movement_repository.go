package repository

import (
	"context"
	"time"

	"github.com/vendly/stockcore-api/internal/domain/entity"
)

// ProductActivity agregados de movimientos de un producto en una ventana.
// Lo produce la DB; los analizadores lo convierten en métricas.
type ProductActivity struct {
	ProductID      string
	TotalOutbound  int     // Σ |quantity| de out/sale/waste
	TotalInbound   int     // Σ quantity de in/restock
	AvgNewStock    float64 // media de new_stock de los movimientos en la ventana
	MovementCount  int
	LastOutboundAt *time.Time // último out/sale/waste; nil si no hubo salidas
}

// ConsumptionDay agregado diario de salidas de un producto (ConsumptionSample).
// Derivado bajo demanda desde el ledger; nunca se almacena.
type ConsumptionDay struct {
	Day      time.Time
	Quantity int // unidades salientes del día (magnitud)
}

// MovementRepository define el puerto de persistencia del ledger de
// movimientos. La tabla es append-only: solo Create, nunca update/delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// ListByProduct devuelve el historial de un producto, más reciente
	// primero, con paginación sin estado (limit/offset).
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	// GetActivity agrega los movimientos de todos los productos en la ventana.
	GetActivity(ctx context.Context, from, to time.Time) ([]ProductActivity, error)
	// GetDailyConsumption agrega las salidas diarias de un producto en la ventana.
	GetDailyConsumption(ctx context.Context, productID string, from, to time.Time) ([]ConsumptionDay, error)
}
