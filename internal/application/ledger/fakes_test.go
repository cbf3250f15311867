package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia. Reproducen el contrato
// observable de las implementaciones Postgres (incluido el nil, nil cuando
// no existe la fila) sin tocar una base de datos.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		repo.products[p.ID] = &cp
	}
	return repo
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Status == entity.ProductStatusActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, productID string, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil
	}
	p.CurrentStock = newStock
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProductRepo) UpdateClassifications(_ context.Context, items []repository.ABCClassification, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		p, ok := r.products[item.ProductID]
		if !ok {
			continue
		}
		p.ABCCategory = item.Category
		p.ABCRank = item.Rank
		ts := updatedAt
		p.ABCLastUpdate = &ts
	}
	return nil
}

func (r *fakeProductRepo) GetOverview(_ context.Context, lowStockFactor float64) (*repository.InventoryOverview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ov := &repository.InventoryOverview{
		TotalStockValue: decimal.Zero,
		GeneratedAt:     time.Now(),
	}
	for _, p := range r.products {
		if p.Status != entity.ProductStatusActive {
			continue
		}
		ov.TotalProducts++
		ov.TotalStockUnits += p.CurrentStock
		ov.TotalStockValue = ov.TotalStockValue.Add(p.BuyPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
		switch {
		case p.CurrentStock <= 0:
			ov.OutOfStockCount++
		case float64(p.CurrentStock) <= lowStockFactor*float64(p.MinStock):
			ov.LowStockCount++
		}
	}
	return ov, nil
}

func (r *fakeProductRepo) stockOf(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p.CurrentStock
	}
	return 0
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.StockMovement
	// orden de inserción = orden cronológico; se invierte para "más reciente primero"
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			cp := *r.movements[i]
			matched = append(matched, &cp)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeMovementRepo) GetActivity(_ context.Context, from, to time.Time) ([]repository.ProductActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byProduct := make(map[string]*repository.ProductActivity)
	for _, m := range r.movements {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		act, ok := byProduct[m.ProductID]
		if !ok {
			act = &repository.ProductActivity{ProductID: m.ProductID}
			byProduct[m.ProductID] = act
		}
		if entity.IsOutboundType(m.Type) {
			act.TotalOutbound += -m.Quantity
			ts := m.CreatedAt
			if act.LastOutboundAt == nil || ts.After(*act.LastOutboundAt) {
				act.LastOutboundAt = &ts
			}
		} else if entity.IsInboundType(m.Type) {
			act.TotalInbound += m.Quantity
		}
		act.AvgNewStock = (act.AvgNewStock*float64(act.MovementCount) + float64(m.NewStock)) / float64(act.MovementCount+1)
		act.MovementCount++
	}
	out := make([]repository.ProductActivity, 0, len(byProduct))
	for _, act := range byProduct {
		out = append(out, *act)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *fakeMovementRepo) GetDailyConsumption(_ context.Context, productID string, from, to time.Time) ([]repository.ConsumptionDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[time.Time]int)
	for _, m := range r.movements {
		if m.ProductID != productID || !entity.IsOutboundType(m.Type) {
			continue
		}
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		day := m.CreatedAt.Truncate(24 * time.Hour)
		byDay[day] += -m.Quantity
	}
	out := make([]repository.ConsumptionDay, 0, len(byDay))
	for day, qty := range byDay {
		out = append(out, repository.ConsumptionDay{Day: day, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *fakeMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

// fakeTxRunner serializa las transacciones con un mutex, igual que lo haría
// el lock de fila FOR UPDATE sobre un mismo producto.
type fakeTxRunner struct {
	mu        sync.Mutex
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

func newFakeTxRunner(products *fakeProductRepo, movements *fakeMovementRepo) *fakeTxRunner {
	return &fakeTxRunner{products: products, movements: movements}
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.products, r.movements)
}

// recordingPublisher acumula los eventos publicados para inspección.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ledger.MovementCommitted
}

func (p *recordingPublisher) Publish(event ledger.MovementCommitted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []ledger.MovementCommitted {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ledger.MovementCommitted, len(p.events))
	copy(out, p.events)
	return out
}
