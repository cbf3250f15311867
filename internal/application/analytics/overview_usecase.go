package analytics

import (
	"context"

	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// OverviewUseCase expone los agregados globales de inventario para la capa
// de reportes, con caché best-effort por delante de la consulta.
type OverviewUseCase struct {
	products       repository.ProductRepository
	cache          OverviewCache
	lowStockFactor float64
}

// NewOverviewUseCase construye el caso de uso. cache puede ser nil.
func NewOverviewUseCase(products repository.ProductRepository, cache OverviewCache, lowStockFactor float64) *OverviewUseCase {
	if lowStockFactor <= 0 {
		lowStockFactor = 1.2
	}
	return &OverviewUseCase{products: products, cache: cache, lowStockFactor: lowStockFactor}
}

// GetInventoryOverview devuelve totales de productos, unidades, valor de
// inventario y conteos de stock bajo/agotado. Un fallo de caché degrada a
// lectura directa; nunca falla por la caché.
func (uc *OverviewUseCase) GetInventoryOverview(ctx context.Context) (*repository.InventoryOverview, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	overview, err := uc.products.GetOverview(ctx, uc.lowStockFactor)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, overview) // best-effort
	}
	return overview, nil
}
