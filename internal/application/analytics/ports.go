package analytics

import (
	"context"

	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD. El
// clasificador ABC lo usa para persistir la clasificación completa de una
// corrida en un solo commit al final: abortar a mitad de corrida es seguro
// porque nada se escribe incrementalmente.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}

// OverviewCache puerto de caché best-effort para el resumen de inventario.
// Un fallo de caché degrada a lectura directa, nunca a error del caller.
type OverviewCache interface {
	// Get devuelve el resumen cacheado, o (nil, nil) en cache miss.
	Get(ctx context.Context) (*repository.InventoryOverview, error)
	Set(ctx context.Context, overview *repository.InventoryOverview) error
}
