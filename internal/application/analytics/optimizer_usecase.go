package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
	"github.com/vendly/stockcore-api/pkg/logger"
)

// Tipos de acción de optimización.
const (
	ActionIncreaseStock      = "increase_stock"
	ActionReduceStock        = "reduce_stock"
	ActionReduceOverstock    = "reduce_overstock"
	ActionLiquidateSlowMover = "liquidate_slow_mover"
)

// OptimizationAction acción sugerida para un producto marcado.
type OptimizationAction struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Type            string `json:"action_type"`
	Priority        string `json:"priority"`
	Reason          string `json:"reason"`
	CurrentStock    int    `json:"current_stock"`
	SuggestedAction string `json:"suggested_action"`
	ExpectedBenefit string `json:"expected_benefit"`
}

// RoiEstimate agregado del beneficio esperado de aplicar las acciones.
// CapitalReleased: valor de compra del exceso liberable (reducciones y
// liquidaciones). RevenueProtected: venta estimada protegida al reponer
// productos A bajo umbral. Total es la suma, en moneda (no porcentaje):
// sin historial de márgenes en este núcleo, un ROI porcentual sería inventado.
type RoiEstimate struct {
	CapitalReleased  decimal.Decimal `json:"capital_released"`
	RevenueProtected decimal.Decimal `json:"revenue_protected"`
	Total            decimal.Decimal `json:"total"`
}

// OptimizationResult lista priorizada de acciones más el estimado de ROI.
type OptimizationResult struct {
	Actions        []OptimizationAction `json:"actions"`
	ROI            RoiEstimate          `json:"roi_estimate"`
	PriorityCounts map[string]int       `json:"priority_counts"`
	RanAt          time.Time            `json:"ran_at"`
}

// OptimizerUseCase orquesta el clasificador ABC, el análisis de rotación y
// ambos detectores, y funde sus resultados en una lista única de acciones
// priorizadas (una acción por producto).
type OptimizerUseCase struct {
	abc        *AbcUseCase
	turnover   *TurnoverUseCase
	detector   *DetectorUseCase
	products   repository.ProductRepository
	log        *logger.Logger
	periodDays int
}

// NewOptimizerUseCase construye el orquestador. periodDays es la ventana de
// análisis compartida por las corridas internas (default 30).
func NewOptimizerUseCase(
	abc *AbcUseCase,
	turnover *TurnoverUseCase,
	detector *DetectorUseCase,
	products repository.ProductRepository,
	log *logger.Logger,
	periodDays int,
) *OptimizerUseCase {
	if periodDays <= 0 {
		periodDays = 30
	}
	return &OptimizerUseCase{
		abc:        abc,
		turnover:   turnover,
		detector:   detector,
		products:   products,
		log:        log,
		periodDays: periodDays,
	}
}

// OptimizeInventory corre los cuatro análisis y emite una acción por
// producto marcado: increase_stock (categoría A bajo umbral), reduce_stock
// (categoría C sobrestockeada), reduce_overstock y liquidate_slow_mover.
// Cuando un producto califica para varias, gana la primera en ese orden.
func (uc *OptimizerUseCase) OptimizeInventory(ctx context.Context) (*OptimizationResult, error) {
	abcRes, err := uc.abc.PerformABCAnalysis(ctx, uc.periodDays)
	if err != nil {
		return nil, err
	}
	turnRes, err := uc.turnover.AnalyzeTurnoverRates(ctx, uc.periodDays)
	if err != nil {
		return nil, err
	}
	overRes, err := uc.detector.DetectOverstock(ctx, uc.periodDays)
	if err != nil {
		return nil, err
	}
	slowRes, err := uc.detector.DetectSlowMovers(ctx, uc.periodDays)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]string, len(abcRes.Items))
	for _, it := range abcRes.Items {
		categories[it.ProductID] = it.Category
	}
	prices := make(map[string]*entity.Product)
	if active, err := uc.products.ListActive(ctx); err == nil {
		for _, p := range active {
			prices[p.ID] = p
		}
	} else {
		return nil, err
	}

	var (
		actions          []OptimizationAction
		seen             = map[string]bool{}
		capitalReleased  = decimal.Zero
		revenueProtected = decimal.Zero
	)

	// 1. Categoría A con reposición activa: aumentar stock.
	for _, it := range turnRes.Items {
		if categories[it.ProductID] != entity.ABCCategoryA || it.Reorder.Urgency == UrgencyNormal {
			continue
		}
		priority := PriorityMedium
		if it.Reorder.Urgency == UrgencyImmediate || it.Reorder.Urgency == UrgencyUrgent {
			priority = PriorityHigh
		}
		protected := decimal.Zero
		if p, ok := prices[it.ProductID]; ok {
			protected = decimal.NewFromInt(int64(it.Reorder.Quantity)).Mul(p.SellPrice)
		}
		revenueProtected = revenueProtected.Add(protected)
		seen[it.ProductID] = true
		actions = append(actions, OptimizationAction{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Type:            ActionIncreaseStock,
			Priority:        priority,
			Reason:          fmt.Sprintf("producto categoría A con %.1f días de stock y reposición %s", it.DaysOfStock, it.Reorder.Urgency),
			CurrentStock:    it.CurrentStock,
			SuggestedAction: fmt.Sprintf("comprar %d unidades", it.Reorder.Quantity),
			ExpectedBenefit: fmt.Sprintf("protege ventas estimadas por %s", protected.Round(2)),
		})
	}

	// 2. Sobrestock: reducir (C es reduce_stock, el resto reduce_overstock).
	for _, it := range overRes.Items {
		if seen[it.ProductID] {
			continue
		}
		actionType := ActionReduceOverstock
		priority := PriorityLow
		if categories[it.ProductID] == entity.ABCCategoryC {
			actionType = ActionReduceStock
			priority = PriorityMedium
		} else if it.OverstockFactor >= 2*uc.detector.cfg.ThresholdFactor {
			priority = PriorityMedium
		}
		capitalReleased = capitalReleased.Add(it.ExcessValue)
		seen[it.ProductID] = true
		actions = append(actions, OptimizationAction{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Type:            actionType,
			Priority:        priority,
			Reason:          fmt.Sprintf("stock %.1fx por encima de su base de consumo", it.OverstockFactor),
			CurrentStock:    it.CurrentStock,
			SuggestedAction: fmt.Sprintf("reducir a %d unidades (exceso de %d)", it.SuggestedStock, it.ExcessUnits),
			ExpectedBenefit: fmt.Sprintf("libera capital por %s", it.ExcessValue.Round(2)),
		})
	}

	// 3. Estancados: liquidar.
	for _, it := range slowRes.Items {
		if seen[it.ProductID] {
			continue
		}
		capitalReleased = capitalReleased.Add(it.StockValue)
		seen[it.ProductID] = true
		actions = append(actions, OptimizationAction{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Type:            ActionLiquidateSlowMover,
			Priority:        PriorityLow,
			Reason:          fmt.Sprintf("sin salidas hace %d días, %d unidades retenidas", it.DaysSinceLastSale, it.CurrentStock),
			CurrentStock:    it.CurrentStock,
			SuggestedAction: "liquidar con descuento o descatalogar",
			ExpectedBenefit: fmt.Sprintf("recupera hasta %s en capital inmovilizado", it.StockValue.Round(2)),
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if priorityRank(actions[i].Priority) != priorityRank(actions[j].Priority) {
			return priorityRank(actions[i].Priority) < priorityRank(actions[j].Priority)
		}
		return actions[i].ProductID < actions[j].ProductID
	})

	counts := map[string]int{}
	for _, a := range actions {
		counts[a.Priority]++
	}

	if uc.log != nil {
		uc.log.Info().
			Int("period_days", uc.periodDays).
			Int("actions", len(actions)).
			Bool("no_sales_data", abcRes.NoSalesData).
			Msg("corrida de optimización de inventario completada")
	}

	return &OptimizationResult{
		Actions:        actions,
		ROI:            RoiEstimate{CapitalReleased: capitalReleased, RevenueProtected: revenueProtected, Total: capitalReleased.Add(revenueProtected)},
		PriorityCounts: counts,
		RanAt:          time.Now(),
	}, nil
}

func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
