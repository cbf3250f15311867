package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendly/stockcore-api/internal/application/analytics"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

func sampleOverview() *repository.InventoryOverview {
	return &repository.InventoryOverview{
		TotalProducts:   12,
		TotalStockUnits: 340,
		TotalStockValue: decimal.NewFromFloat(812.50),
		LowStockCount:   3,
		OutOfStockCount: 1,
		GeneratedAt:     time.Now(),
	}
}

func TestGetInventoryOverview_CacheMissConsultaYGuarda(t *testing.T) {
	products := &stubProductRepo{overview: sampleOverview()}
	cache := &stubOverviewCache{}
	uc := analytics.NewOverviewUseCase(products, cache, 1.2)

	got, err := uc.GetInventoryOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, got.TotalProducts)
	assert.Equal(t, 1, products.overviewCalls, "en cache miss se consulta la base")
	assert.Equal(t, 1, cache.setCalls, "el resultado fresco se guarda en caché")
}

func TestGetInventoryOverview_CacheHitNoConsultaBase(t *testing.T) {
	products := &stubProductRepo{overview: sampleOverview()}
	cache := &stubOverviewCache{stored: sampleOverview()}
	uc := analytics.NewOverviewUseCase(products, cache, 1.2)

	_, err := uc.GetInventoryOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.getCalls)
	assert.Zero(t, products.overviewCalls, "con hit de caché no se toca la base")
}

func TestGetInventoryOverview_SinCacheFunciona(t *testing.T) {
	products := &stubProductRepo{overview: sampleOverview()}
	uc := analytics.NewOverviewUseCase(products, nil, 1.2)

	got, err := uc.GetInventoryOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 340, got.TotalStockUnits)
	assert.Equal(t, 1, products.overviewCalls)
}
