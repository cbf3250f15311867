package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain"
	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// DetectorConfig parámetros de los detectores de sobrestock y baja rotación.
type DetectorConfig struct {
	// ThresholdFactor multiplica la base de consumo para marcar sobrestock
	// (default 3.0, configurable).
	ThresholdFactor float64
	// CoverDays días de cobertura que definen la base de consumo típica
	// (default 30: un mes de consumo promedio).
	CoverDays int
}

func (c DetectorConfig) withDefaults() DetectorConfig {
	if c.ThresholdFactor <= 0 {
		c.ThresholdFactor = 3.0
	}
	if c.CoverDays <= 0 {
		c.CoverDays = 30
	}
	return c
}

// OverstockItem producto con stock muy por encima de su consumo típico.
type OverstockItem struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	CurrentStock     int             `json:"current_stock"`
	DailyConsumption float64         `json:"daily_consumption"`
	OverstockFactor  float64         `json:"overstock_factor"` // current_stock / base de consumo
	SuggestedStock   int             `json:"suggested_stock"`  // objetivo para volver a rango
	ExcessUnits      int             `json:"excess_units"`
	ExcessValue      decimal.Decimal `json:"excess_value"` // exceso × precio de compra
}

// OverstockResult resultado del detector de sobrestock, peor caso primero.
type OverstockResult struct {
	PeriodDays int             `json:"period_days"`
	Items      []OverstockItem `json:"items"`
	RanAt      time.Time       `json:"ran_at"`
}

// SlowMoverItem producto estancado: categoría very_slow con stock retenido.
type SlowMoverItem struct {
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	CurrentStock      int             `json:"current_stock"`
	DaysOfStock       float64         `json:"days_of_stock"`
	DaysSinceLastSale int             `json:"days_since_last_sale"`
	StockValue        decimal.Decimal `json:"stock_value"`
}

// SlowMoverResult resultado del detector de baja rotación, más estancado primero.
type SlowMoverResult struct {
	PeriodDays int            `json:"period_days"`
	Items      []SlowMoverItem `json:"items"`
	RanAt      time.Time      `json:"ran_at"`
}

// DetectorUseCase detecta inventario en exceso o estancado a partir del
// historial de movimientos.
type DetectorUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	cfg       DetectorConfig
}

// NewDetectorUseCase construye los detectores.
func NewDetectorUseCase(products repository.ProductRepository, movements repository.MovementRepository, cfg DetectorConfig) *DetectorUseCase {
	return &DetectorUseCase{products: products, movements: movements, cfg: cfg.withDefaults()}
}

// DetectOverstock marca productos cuyo stock supera ThresholdFactor veces su
// base de consumo típica (CoverDays de consumo diario promedio en la
// ventana). Productos sin consumo no tienen base significativa y quedan a
// cargo del detector de baja rotación.
func (uc *DetectorUseCase) DetectOverstock(ctx context.Context, periodDays int) (*OverstockResult, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()

	active, byProduct, err := uc.loadActivity(ctx, now, periodDays)
	if err != nil {
		return nil, err
	}

	items := make([]OverstockItem, 0)
	for _, p := range active {
		act := byProduct[p.ID]
		daily := float64(act.TotalOutbound) / float64(periodDays)
		basis := daily * float64(uc.cfg.CoverDays)
		if basis <= 0 {
			continue
		}
		if float64(p.CurrentStock) <= uc.cfg.ThresholdFactor*basis {
			continue
		}
		suggested := int(math.Ceil(basis))
		excess := p.CurrentStock - suggested
		items = append(items, OverstockItem{
			ProductID:        p.ID,
			Name:             p.Name,
			CurrentStock:     p.CurrentStock,
			DailyConsumption: daily,
			OverstockFactor:  float64(p.CurrentStock) / basis,
			SuggestedStock:   suggested,
			ExcessUnits:      excess,
			ExcessValue:      decimal.NewFromInt(int64(excess)).Mul(p.BuyPrice),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OverstockFactor != items[j].OverstockFactor {
			return items[i].OverstockFactor > items[j].OverstockFactor
		}
		return items[i].ProductID < items[j].ProductID
	})

	return &OverstockResult{PeriodDays: periodDays, Items: items, RanAt: now}, nil
}

// DetectSlowMovers marca productos con stock retenido y rotación very_slow
// (más de 180 días de autonomía al ritmo actual, incluyendo consumo cero).
// DaysSinceLastSale se mide desde la última salida; sin salidas en la
// ventana se reporta la ventana completa más un día.
func (uc *DetectorUseCase) DetectSlowMovers(ctx context.Context, periodDays int) (*SlowMoverResult, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()

	active, byProduct, err := uc.loadActivity(ctx, now, periodDays)
	if err != nil {
		return nil, err
	}

	items := make([]SlowMoverItem, 0)
	for _, p := range active {
		if p.CurrentStock <= 0 {
			continue
		}
		act := byProduct[p.ID]
		daily := float64(act.TotalOutbound) / float64(periodDays)
		daysOfStock := DaysOfStockCap
		if daily > 0 {
			daysOfStock = math.Min(float64(p.CurrentStock)/daily, DaysOfStockCap)
		}
		if classifyDaysOfStock(daysOfStock) != TurnoverVerySlow {
			continue
		}
		daysSinceLastSale := periodDays + 1
		if act.LastOutboundAt != nil {
			daysSinceLastSale = int(now.Sub(*act.LastOutboundAt).Hours() / 24)
		}
		items = append(items, SlowMoverItem{
			ProductID:         p.ID,
			Name:              p.Name,
			CurrentStock:      p.CurrentStock,
			DaysOfStock:       daysOfStock,
			DaysSinceLastSale: daysSinceLastSale,
			StockValue:        decimal.NewFromInt(int64(p.CurrentStock)).Mul(p.BuyPrice),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysSinceLastSale != items[j].DaysSinceLastSale {
			return items[i].DaysSinceLastSale > items[j].DaysSinceLastSale
		}
		return items[i].ProductID < items[j].ProductID
	})

	return &SlowMoverResult{PeriodDays: periodDays, Items: items, RanAt: now}, nil
}

func (uc *DetectorUseCase) loadActivity(ctx context.Context, now time.Time, periodDays int) ([]*entity.Product, map[string]repository.ProductActivity, error) {
	active, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	activity, err := uc.movements.GetActivity(ctx, now.AddDate(0, 0, -periodDays), now)
	if err != nil {
		return nil, nil, err
	}
	byProduct := make(map[string]repository.ProductActivity, len(activity))
	for _, a := range activity {
		byProduct[a.ProductID] = a
	}
	return active, byProduct, nil
}
