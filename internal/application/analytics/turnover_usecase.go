package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/vendly/stockcore-api/internal/domain"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// Categorías de rotación por días de stock (cotas superiores inclusivas).
const (
	TurnoverVeryFast = "very_fast" // <= 7 días
	TurnoverFast     = "fast"      // <= 21 días
	TurnoverMedium   = "medium"    // <= 60 días
	TurnoverSlow     = "slow"      // <= 180 días
	TurnoverVerySlow = "very_slow" // > 180 días
)

// Urgencias de reposición derivadas de días hasta el mínimo.
const (
	UrgencyImmediate = "immediate"
	UrgencyUrgent    = "urgent"
	UrgencySoon      = "soon"
	UrgencyNormal    = "normal"
)

// DaysOfStockCap tope deliberado para días de stock cuando no hay consumo
// (no es infinito real: mantiene los resultados totalmente ordenables).
const DaysOfStockCap = 999.0

// ReorderAdvice recomendación de reposición de un producto.
type ReorderAdvice struct {
	Urgency  string `json:"urgency"`
	Quantity int    `json:"quantity"`
}

// TurnoverItem métricas de velocidad de consumo de un producto en la ventana.
type TurnoverItem struct {
	ProductID        string        `json:"product_id"`
	Name             string        `json:"name"`
	CurrentStock     int           `json:"current_stock"`
	MinStock         int           `json:"min_stock"`
	TotalOutbound    int           `json:"total_outbound"`
	TotalInbound     int           `json:"total_inbound"`
	AvgStock         float64       `json:"avg_stock"`
	DailyConsumption float64       `json:"daily_consumption"`
	DaysOfStock      float64       `json:"days_of_stock"`
	TurnoverRate     float64       `json:"turnover_rate"`
	Category         string        `json:"category"`
	Reorder          ReorderAdvice `json:"reorder_recommendation"`
}

// TurnoverResult resultado del análisis de rotación, ordenado por días de
// stock ascendente (lo más urgente primero).
type TurnoverResult struct {
	PeriodDays int            `json:"period_days"`
	Items      []TurnoverItem `json:"items"`
	Summary    map[string]int `json:"summary"` // conteo por categoría
	RanAt      time.Time      `json:"ran_at"`
}

// TurnoverUseCase calcula velocidad de consumo y autonomía de stock por
// producto a partir del historial de movimientos del ledger.
type TurnoverUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
}

// NewTurnoverUseCase construye el analizador de rotación.
func NewTurnoverUseCase(products repository.ProductRepository, movements repository.MovementRepository) *TurnoverUseCase {
	return &TurnoverUseCase{products: products, movements: movements}
}

// AnalyzeTurnoverRates calcula, por producto activo, consumo total, stock
// promedio, días de stock restantes, tasa de rotación y recomendación de
// reposición sobre la ventana [now-periodDays, now]. Solo lectura: corre en
// batch sin bloquear a los escritores del ledger.
func (uc *TurnoverUseCase) AnalyzeTurnoverRates(ctx context.Context, periodDays int) (*TurnoverResult, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	from := now.AddDate(0, 0, -periodDays)

	active, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := uc.movements.GetActivity(ctx, from, now)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]repository.ProductActivity, len(activity))
	for _, a := range activity {
		byProduct[a.ProductID] = a
	}

	items := make([]TurnoverItem, 0, len(active))
	summary := map[string]int{}
	for _, p := range active {
		act := byProduct[p.ID]

		avgStock := act.AvgNewStock
		if act.MovementCount == 0 {
			// Sin movimientos en la ventana: el stock actual es la mejor
			// aproximación del promedio.
			avgStock = float64(p.CurrentStock)
		}

		daily := float64(act.TotalOutbound) / float64(periodDays)
		daysOfStock := DaysOfStockCap
		if daily > 0 {
			daysOfStock = math.Min(float64(p.CurrentStock)/daily, DaysOfStockCap)
		}
		turnoverRate := 0.0
		if avgStock > 0 {
			turnoverRate = float64(act.TotalOutbound) / avgStock
		}

		category := classifyDaysOfStock(daysOfStock)
		summary[category]++

		items = append(items, TurnoverItem{
			ProductID:        p.ID,
			Name:             p.Name,
			CurrentStock:     p.CurrentStock,
			MinStock:         p.MinStock,
			TotalOutbound:    act.TotalOutbound,
			TotalInbound:     act.TotalInbound,
			AvgStock:         avgStock,
			DailyConsumption: daily,
			DaysOfStock:      daysOfStock,
			TurnoverRate:     turnoverRate,
			Category:         category,
			Reorder:          recommendReorder(p.CurrentStock, p.MinStock, daily),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysOfStock != items[j].DaysOfStock {
			return items[i].DaysOfStock < items[j].DaysOfStock
		}
		return items[i].ProductID < items[j].ProductID
	})

	return &TurnoverResult{PeriodDays: periodDays, Items: items, Summary: summary, RanAt: now}, nil
}

// classifyDaysOfStock asigna la categoría de rotación por la primera cota
// inclusiva que aplique.
func classifyDaysOfStock(days float64) string {
	switch {
	case days <= 7:
		return TurnoverVeryFast
	case days <= 21:
		return TurnoverFast
	case days <= 60:
		return TurnoverMedium
	case days <= 180:
		return TurnoverSlow
	default:
		return TurnoverVerySlow
	}
}

// recommendReorder deriva urgencia y cantidad sugerida desde los días que
// faltan para tocar el stock mínimo. Sin consumo no hay urgencia.
func recommendReorder(currentStock, minStock int, dailyConsumption float64) ReorderAdvice {
	if dailyConsumption <= 0 {
		return ReorderAdvice{Urgency: UrgencyNormal, Quantity: 0}
	}
	daysUntilMinimum := (float64(currentStock) - float64(minStock)) / dailyConsumption
	switch {
	case daysUntilMinimum <= 0:
		qty := math.Max(2*float64(minStock), 14*dailyConsumption)
		return ReorderAdvice{Urgency: UrgencyImmediate, Quantity: int(math.Ceil(qty))}
	case daysUntilMinimum <= 7:
		qty := math.Max(float64(minStock), 10*dailyConsumption)
		return ReorderAdvice{Urgency: UrgencyUrgent, Quantity: int(math.Ceil(qty))}
	case daysUntilMinimum <= 14:
		return ReorderAdvice{Urgency: UrgencySoon, Quantity: int(math.Ceil(7 * dailyConsumption))}
	default:
		return ReorderAdvice{Urgency: UrgencyNormal, Quantity: 0}
	}
}
