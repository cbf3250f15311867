package analytics_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// Stubs en memoria de los puertos de lectura. La analítica es pura función de
// sus entradas, así que basta con datos enlatados y captura de escrituras.

type stubProductRepo struct {
	products []*entity.Product
	overview *repository.InventoryOverview

	savedClassifications []repository.ABCClassification
	classificationRuns   int
	overviewCalls        int
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Status == entity.ProductStatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) UpdateStock(_ context.Context, _ string, _ int) error { return nil }

func (r *stubProductRepo) UpdateClassifications(_ context.Context, items []repository.ABCClassification, _ time.Time) error {
	r.savedClassifications = append([]repository.ABCClassification(nil), items...)
	r.classificationRuns++
	return nil
}

func (r *stubProductRepo) GetOverview(_ context.Context, _ float64) (*repository.InventoryOverview, error) {
	r.overviewCalls++
	return r.overview, nil
}

type stubMovementRepo struct {
	activity    []repository.ProductActivity
	consumption map[string][]repository.ConsumptionDay
}

func (r *stubMovementRepo) Create(_ context.Context, _ *entity.StockMovement) error { return nil }

func (r *stubMovementRepo) GetByID(_ context.Context, _ string) (*entity.StockMovement, error) {
	return nil, nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, _ string, _, _ int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *stubMovementRepo) GetActivity(_ context.Context, _, _ time.Time) ([]repository.ProductActivity, error) {
	return r.activity, nil
}

func (r *stubMovementRepo) GetDailyConsumption(_ context.Context, productID string, _, _ time.Time) ([]repository.ConsumptionDay, error) {
	return r.consumption[productID], nil
}

type stubSalesRepo struct {
	aggregates []repository.SalesAggregate
}

func (r *stubSalesRepo) GetSalesByProduct(_ context.Context, _, _ time.Time) ([]repository.SalesAggregate, error) {
	return r.aggregates, nil
}

type stubTxRunner struct {
	products  *stubProductRepo
	movements *stubMovementRepo
	runs      int
}

func (r *stubTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	r.runs++
	if r.movements == nil {
		r.movements = &stubMovementRepo{}
	}
	return fn(r.products, r.movements)
}

type stubOverviewCache struct {
	stored   *repository.InventoryOverview
	getCalls int
	setCalls int
}

func (c *stubOverviewCache) Get(_ context.Context) (*repository.InventoryOverview, error) {
	c.getCalls++
	return c.stored, nil
}

func (c *stubOverviewCache) Set(_ context.Context, overview *repository.InventoryOverview) error {
	c.setCalls++
	c.stored = overview
	return nil
}

func activeProduct(id, name string, stock, minStock int) *entity.Product {
	return &entity.Product{
		ID:           id,
		Name:         name,
		CurrentStock: stock,
		MinStock:     minStock,
		BuyPrice:     decimal.NewFromFloat(2.00),
		SellPrice:    decimal.NewFromFloat(3.50),
		Status:       entity.ProductStatusActive,
	}
}

func decimalFrom(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sale(productID string, qty int, revenue float64) repository.SalesAggregate {
	return repository.SalesAggregate{
		ProductID:    productID,
		QuantitySold: qty,
		Revenue:      decimal.NewFromFloat(revenue),
	}
}
