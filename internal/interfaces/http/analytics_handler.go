package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendly/stockcore-api/internal/application/analytics"
)

// AnalyticsHandler expone el motor de análisis de inventario por HTTP.
type AnalyticsHandler struct {
	abc       *analytics.AbcUseCase
	turnover  *analytics.TurnoverUseCase
	reorder   *analytics.ReorderUseCase
	detector  *analytics.DetectorUseCase
	optimizer *analytics.OptimizerUseCase
	overview  *analytics.OverviewUseCase

	defaultPeriodDays int
}

// NewAnalyticsHandler crea el handler de analítica.
func NewAnalyticsHandler(
	abc *analytics.AbcUseCase,
	turnover *analytics.TurnoverUseCase,
	reorder *analytics.ReorderUseCase,
	detector *analytics.DetectorUseCase,
	optimizer *analytics.OptimizerUseCase,
	overview *analytics.OverviewUseCase,
	defaultPeriodDays int,
) *AnalyticsHandler {
	if defaultPeriodDays <= 0 {
		defaultPeriodDays = 30
	}
	return &AnalyticsHandler{
		abc:               abc,
		turnover:          turnover,
		reorder:           reorder,
		detector:          detector,
		optimizer:         optimizer,
		overview:          overview,
		defaultPeriodDays: defaultPeriodDays,
	}
}

func (h *AnalyticsHandler) periodDays(c *fiber.Ctx) int {
	days := c.QueryInt("period_days", h.defaultPeriodDays)
	if days <= 0 {
		days = h.defaultPeriodDays
	}
	return days
}

// PerformABCAnalysis godoc
// @Summary      Clasificación ABC por Pareto de ingresos
// @Description  Clasifica los productos activos por contribución al ingreso del período y persiste categoría y rank
// @Tags         analytics
// @Produce      json
// @Param        period_days  query     int  false  "Ventana de análisis en días (default 30)"
// @Success      200          {object}  analytics.AbcResult
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/analytics/abc [post]
func (h *AnalyticsHandler) PerformABCAnalysis(c *fiber.Ctx) error {
	result, err := h.abc.PerformABCAnalysis(c.Context(), h.periodDays(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// AnalyzeTurnoverRates godoc
// @Summary      Rotación y días de stock por producto
// @Tags         analytics
// @Produce      json
// @Param        period_days  query     int  false  "Ventana de análisis en días (default 30)"
// @Success      200          {object}  analytics.TurnoverResult
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/analytics/turnover [get]
func (h *AnalyticsHandler) AnalyzeTurnoverRates(c *fiber.Ctx) error {
	result, err := h.turnover.AnalyzeTurnoverRates(c.Context(), h.periodDays(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GenerateReorderSuggestions godoc
// @Summary      Sugerencias de reposición priorizadas
// @Description  Productos agotados o bajo mínimo con cantidad sugerida, costo estimado y score de urgencia
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  analytics.ReorderResult
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/reorder-suggestions [get]
func (h *AnalyticsHandler) GenerateReorderSuggestions(c *fiber.Ctx) error {
	result, err := h.reorder.GenerateReorderSuggestions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// DetectOverstock godoc
// @Summary      Productos con sobrestock
// @Tags         analytics
// @Produce      json
// @Param        period_days  query     int  false  "Ventana de análisis en días (default 30)"
// @Success      200          {object}  analytics.OverstockResult
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/analytics/overstock [get]
func (h *AnalyticsHandler) DetectOverstock(c *fiber.Ctx) error {
	result, err := h.detector.DetectOverstock(c.Context(), h.periodDays(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// DetectSlowMovers godoc
// @Summary      Productos de rotación muy lenta
// @Tags         analytics
// @Produce      json
// @Param        period_days  query     int  false  "Ventana de análisis en días (default 30)"
// @Success      200          {object}  analytics.SlowMoverResult
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/analytics/slow-movers [get]
func (h *AnalyticsHandler) DetectSlowMovers(c *fiber.Ctx) error {
	result, err := h.detector.DetectSlowMovers(c.Context(), h.periodDays(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// OptimizeInventory godoc
// @Summary      Plan de optimización de inventario
// @Description  Corre ABC, rotación, reposición y detección de sobrestock, y consolida acciones priorizadas con ROI estimado
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  analytics.OptimizationResult
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/optimize [post]
func (h *AnalyticsHandler) OptimizeInventory(c *fiber.Ctx) error {
	result, err := h.optimizer.OptimizeInventory(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetInventoryOverview godoc
// @Summary      Resumen agregado del inventario
// @Description  Totales de productos, unidades y valor de stock, con conteos de stock bajo y agotado
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  repository.InventoryOverview
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/overview [get]
func (h *AnalyticsHandler) GetInventoryOverview(c *fiber.Ctx) error {
	result, err := h.overview.GetInventoryOverview(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
