package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// Estados de stock, del más al menos severo.
const (
	StockStatusOut          = "out_of_stock"  // current_stock <= 0
	StockStatusBelowMinimum = "below_minimum" // current_stock <= min_stock
	StockStatusLow          = "low_stock"     // current_stock <= lowStockFactor * min_stock
)

// Prioridades de sugerencia.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ReorderConfig parámetros del planificador, cargados desde configuración
// (el factor de seguridad nunca se codifica en duro).
type ReorderConfig struct {
	SafetyFactor          float64 // multiplicador sobre la cantidad base (default 1.5)
	LowStockFactor        float64 // multiplicador sobre min_stock para low_stock (default 1.2)
	ConsumptionWindowDays int     // ventana para el resumen de consumo (default 30)
}

func (c ReorderConfig) withDefaults() ReorderConfig {
	if c.SafetyFactor <= 0 {
		c.SafetyFactor = 1.5
	}
	if c.LowStockFactor <= 0 {
		c.LowStockFactor = 1.2
	}
	if c.ConsumptionWindowDays <= 0 {
		c.ConsumptionWindowDays = 30
	}
	return c
}

// ConsumptionSummary resumen del consumo diario de un producto en la ventana.
type ConsumptionSummary struct {
	DailyAverage float64 `json:"daily_average"`
	MaxDaily     int     `json:"max_daily"`
	ActiveDays   int     `json:"active_days"`
}

// ReorderSuggestion sugerencia de compra para un producto bajo umbral.
type ReorderSuggestion struct {
	ProductID         string             `json:"product_id"`
	Name              string             `json:"name"`
	CurrentStock      int                `json:"current_stock"`
	MinStock          int                `json:"min_stock"`
	StockStatus       string             `json:"stock_status"`
	Consumption       ConsumptionSummary `json:"consumption"`
	DaysUntilStockout float64            `json:"days_until_stockout"`
	SuggestedQuantity int                `json:"suggested_quantity"`
	EstimatedCost     decimal.Decimal    `json:"estimated_cost"`
	ABCCategory       string             `json:"abc_category,omitempty"`
	Priority          string             `json:"priority"`
	UrgencyScore      float64            `json:"urgency_score"`
}

// ReorderResult lista de sugerencias ordenada por urgencia descendente.
type ReorderResult struct {
	Suggestions        []ReorderSuggestion `json:"suggestions"`
	TotalEstimatedCost decimal.Decimal     `json:"total_estimated_cost"`
	PriorityCounts     map[string]int      `json:"priority_counts"`
	RanAt              time.Time           `json:"ran_at"`
}

// ReorderUseCase deriva sugerencias de compra desde la velocidad de consumo
// y los umbrales de stock mínimo.
type ReorderUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	cfg       ReorderConfig
}

// NewReorderUseCase construye el planificador de reposición.
func NewReorderUseCase(products repository.ProductRepository, movements repository.MovementRepository, cfg ReorderConfig) *ReorderUseCase {
	return &ReorderUseCase{products: products, movements: movements, cfg: cfg.withDefaults()}
}

// GenerateReorderSuggestions selecciona los productos activos bajo umbral
// (sin stock, bajo mínimo o en zona baja), calcula su consumo de los últimos
// 30 días y sugiere cantidad y costo de compra, ordenado por urgencia.
func (uc *ReorderUseCase) GenerateReorderSuggestions(ctx context.Context) (*ReorderResult, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -uc.cfg.ConsumptionWindowDays)

	active, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]ReorderSuggestion, 0)
	total := decimal.Zero
	counts := map[string]int{}

	for _, p := range active {
		status := stockStatus(p.CurrentStock, p.MinStock, uc.cfg.LowStockFactor)
		if status == "" {
			continue
		}

		days, err := uc.movements.GetDailyConsumption(ctx, p.ID, from, now)
		if err != nil {
			return nil, err
		}
		consumption := summarizeConsumption(days, uc.cfg.ConsumptionWindowDays)

		daysUntilStockout := DaysOfStockCap // sin consumo: sin horizonte, prioridad más baja
		if consumption.DailyAverage > 0 {
			daysUntilStockout = math.Min(float64(p.CurrentStock)/consumption.DailyAverage, DaysOfStockCap)
		}

		baseline := math.Max(2*float64(p.MinStock), 14*consumption.DailyAverage)
		suggestedQty := int(math.Ceil(baseline * uc.cfg.SafetyFactor))
		estimatedCost := decimal.NewFromInt(int64(suggestedQty)).Mul(p.BuyPrice)

		priority := reorderPriority(status, daysUntilStockout)
		counts[priority]++
		total = total.Add(estimatedCost)

		suggestions = append(suggestions, ReorderSuggestion{
			ProductID:         p.ID,
			Name:              p.Name,
			CurrentStock:      p.CurrentStock,
			MinStock:          p.MinStock,
			StockStatus:       status,
			Consumption:       consumption,
			DaysUntilStockout: daysUntilStockout,
			SuggestedQuantity: suggestedQty,
			EstimatedCost:     estimatedCost,
			ABCCategory:       p.ABCCategory,
			Priority:          priority,
			UrgencyScore:      urgencyScore(status, daysUntilStockout, p.ABCCategory),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].UrgencyScore != suggestions[j].UrgencyScore {
			return suggestions[i].UrgencyScore > suggestions[j].UrgencyScore
		}
		return suggestions[i].ProductID < suggestions[j].ProductID
	})

	return &ReorderResult{
		Suggestions:        suggestions,
		TotalEstimatedCost: total,
		PriorityCounts:     counts,
		RanAt:              now,
	}, nil
}

// stockStatus clasifica el stock contra los umbrales, verificando primero el
// caso más severo. Devuelve cadena vacía si el producto está sano.
func stockStatus(currentStock, minStock int, lowStockFactor float64) string {
	switch {
	case currentStock <= 0:
		return StockStatusOut
	case currentStock <= minStock:
		return StockStatusBelowMinimum
	case float64(currentStock) <= lowStockFactor*float64(minStock):
		return StockStatusLow
	}
	return ""
}

func summarizeConsumption(days []repository.ConsumptionDay, windowDays int) ConsumptionSummary {
	totalQty := 0
	maxDaily := 0
	for _, d := range days {
		totalQty += d.Quantity
		if d.Quantity > maxDaily {
			maxDaily = d.Quantity
		}
	}
	return ConsumptionSummary{
		DailyAverage: float64(totalQty) / float64(windowDays),
		MaxDaily:     maxDaily,
		ActiveDays:   len(days),
	}
}

// urgencyScore combina severidad de stock, horizonte de quiebre e importancia
// ABC en un único puntaje ordenable:
//
//	score = severidad + 50/(1+díasHastaQuiebre) + bonoABC
//
// severidad: out_of_stock=100, below_minimum=60, low_stock=30.
// bonoABC: A=20, B=10, C o sin clasificar=0.
// Monótono: más severidad o menos días de horizonte nunca bajan el puntaje.
func urgencyScore(status string, daysUntilStockout float64, abcCategory string) float64 {
	score := 0.0
	switch status {
	case StockStatusOut:
		score += 100
	case StockStatusBelowMinimum:
		score += 60
	case StockStatusLow:
		score += 30
	}
	score += 50 / (1 + math.Max(daysUntilStockout, 0))
	switch abcCategory {
	case entity.ABCCategoryA:
		score += 20
	case entity.ABCCategoryB:
		score += 10
	}
	return score
}

// reorderPriority mapea estado y horizonte a prioridad alta/media/baja.
func reorderPriority(status string, daysUntilStockout float64) string {
	switch {
	case status == StockStatusOut || daysUntilStockout <= 7:
		return PriorityHigh
	case status == StockStatusBelowMinimum || daysUntilStockout <= 14:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
