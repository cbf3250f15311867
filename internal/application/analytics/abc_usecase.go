package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain"
	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// Umbrales inclusivos de porcentaje acumulado de ingresos.
var (
	abcThresholdA = decimal.NewFromInt(80)
	abcThresholdB = decimal.NewFromInt(95)
	oneHundred    = decimal.NewFromInt(100)
)

// AbcItem detalle por producto de una corrida ABC.
type AbcItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Rank          int             `json:"rank"`
	QuantitySold  int             `json:"quantity_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	RevenueShare  decimal.Decimal `json:"revenue_share_pct"`
	CumulativePct decimal.Decimal `json:"cumulative_pct"`
	Category      string          `json:"category"`
}

// AbcCategorySummary resumen por categoría A/B/C.
type AbcCategorySummary struct {
	Category     string          `json:"category"`
	Count        int             `json:"count"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueShare decimal.Decimal `json:"revenue_share_pct"`
}

// AbcResult resultado de una corrida del análisis ABC.
// NoSalesData=true es el resultado vacío tipado: sin ingresos en la ventana
// no se toca la clasificación existente y el caller puede pintar un estado
// vacío sin tratar el caso como error.
type AbcResult struct {
	PeriodDays   int                  `json:"period_days"`
	TotalRevenue decimal.Decimal      `json:"total_revenue"`
	NoSalesData  bool                 `json:"no_sales_data"`
	Items        []AbcItem            `json:"items"`
	Summary      []AbcCategorySummary `json:"summary"`
	RanAt        time.Time            `json:"ran_at"`
}

// AbcUseCase clasifica los productos activos en categorías A/B/C por
// contribución acumulada a los ingresos (análisis de Pareto).
type AbcUseCase struct {
	txRunner TxRunner
	products repository.ProductRepository
	sales    repository.SalesRepository
}

// NewAbcUseCase construye el clasificador ABC.
func NewAbcUseCase(txRunner TxRunner, products repository.ProductRepository, sales repository.SalesRepository) *AbcUseCase {
	return &AbcUseCase{txRunner: txRunner, products: products, sales: sales}
}

// PerformABCAnalysis corre el análisis sobre la ventana [now-periodDays, now]
// y sobrescribe abc_category/abc_rank/abc_last_update de forma incondicional
// en un solo commit al final. Idempotente: el mismo input produce la misma
// clasificación. Empates de ingreso se resuelven por ID de producto
// ascendente para que el orden sea determinista entre corridas.
func (uc *AbcUseCase) PerformABCAnalysis(ctx context.Context, periodDays int) (*AbcResult, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	from := now.AddDate(0, 0, -periodDays)

	active, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	aggregates, err := uc.sales.GetSalesByProduct(ctx, from, now)
	if err != nil {
		return nil, err
	}
	salesByProduct := make(map[string]repository.SalesAggregate, len(aggregates))
	for _, a := range aggregates {
		salesByProduct[a.ProductID] = a
	}

	// Solo productos activos participan; los que no vendieron entran con
	// ingreso cero y terminan al final de la lista, en C.
	items := make([]AbcItem, 0, len(active))
	total := decimal.Zero
	for _, p := range active {
		item := AbcItem{ProductID: p.ID, Name: p.Name, Revenue: decimal.Zero}
		if agg, ok := salesByProduct[p.ID]; ok {
			item.QuantitySold = agg.QuantitySold
			item.Revenue = agg.Revenue
		}
		total = total.Add(item.Revenue)
		items = append(items, item)
	}

	if total.LessThanOrEqual(decimal.Zero) {
		// Resultado vacío tipado: la clasificación previa queda intacta.
		return &AbcResult{
			PeriodDays:   periodDays,
			TotalRevenue: decimal.Zero,
			NoSalesData:  true,
			Items:        []AbcItem{},
			Summary:      []AbcCategorySummary{},
			RanAt:        now,
		}, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Revenue.Equal(items[j].Revenue) {
			return items[i].Revenue.GreaterThan(items[j].Revenue)
		}
		return items[i].ProductID < items[j].ProductID
	})

	cumulative := decimal.Zero
	assignments := make([]repository.ABCClassification, 0, len(items))
	for i := range items {
		cumulative = cumulative.Add(items[i].Revenue)
		pct := cumulative.Div(total).Mul(oneHundred)

		items[i].Rank = i + 1
		items[i].RevenueShare = items[i].Revenue.Div(total).Mul(oneHundred).Round(2)
		items[i].CumulativePct = pct.Round(3)

		switch {
		case pct.LessThanOrEqual(abcThresholdA):
			items[i].Category = entity.ABCCategoryA
		case pct.LessThanOrEqual(abcThresholdB):
			items[i].Category = entity.ABCCategoryB
		default:
			items[i].Category = entity.ABCCategoryC
		}

		assignments = append(assignments, repository.ABCClassification{
			ProductID: items[i].ProductID,
			Category:  items[i].Category,
			Rank:      items[i].Rank,
		})
	}

	// Persistencia al final de la corrida, en una sola transacción.
	err = uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.MovementRepository,
	) error {
		return products.UpdateClassifications(ctx, assignments, now)
	})
	if err != nil {
		return nil, err
	}

	return &AbcResult{
		PeriodDays:   periodDays,
		TotalRevenue: total,
		NoSalesData:  false,
		Items:        items,
		Summary:      summarizeAbc(items, total),
		RanAt:        now,
	}, nil
}

func summarizeAbc(items []AbcItem, total decimal.Decimal) []AbcCategorySummary {
	byCategory := map[string]*AbcCategorySummary{}
	for _, cat := range []string{entity.ABCCategoryA, entity.ABCCategoryB, entity.ABCCategoryC} {
		byCategory[cat] = &AbcCategorySummary{Category: cat, Revenue: decimal.Zero}
	}
	for _, it := range items {
		s := byCategory[it.Category]
		s.Count++
		s.Revenue = s.Revenue.Add(it.Revenue)
	}
	out := make([]AbcCategorySummary, 0, 3)
	for _, cat := range []string{entity.ABCCategoryA, entity.ABCCategoryB, entity.ABCCategoryC} {
		s := byCategory[cat]
		if total.GreaterThan(decimal.Zero) {
			s.RevenueShare = s.Revenue.Div(total).Mul(oneHundred).Round(2)
		}
		out = append(out, *s)
	}
	return out
}
