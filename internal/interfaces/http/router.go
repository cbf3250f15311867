package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendly/stockcore-api/internal/application/analytics"
	"github.com/vendly/stockcore-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.UseCase
	AbcUC       *analytics.AbcUseCase
	TurnoverUC  *analytics.TurnoverUseCase
	ReorderUC   *analytics.ReorderUseCase
	DetectorUC  *analytics.DetectorUseCase
	OptimizerUC *analytics.OptimizerUseCase
	OverviewUC  *analytics.OverviewUseCase

	DefaultPeriodDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Stock Ledger
	inventory := api.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	inventory.Post("/movements", ledgerHandler.RegisterMovement)
	inventory.Get("/products/:id/stock", ledgerHandler.GetCurrentStock)
	inventory.Get("/products/:id/movements", ledgerHandler.GetMovementHistory)

	analyticsHandler := NewAnalyticsHandler(
		deps.AbcUC,
		deps.TurnoverUC,
		deps.ReorderUC,
		deps.DetectorUC,
		deps.OptimizerUC,
		deps.OverviewUC,
		deps.DefaultPeriodDays,
	)
	inventory.Get("/overview", analyticsHandler.GetInventoryOverview)

	// Motor de análisis
	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Post("/abc", analyticsHandler.PerformABCAnalysis)
	analyticsGroup.Get("/turnover", analyticsHandler.AnalyzeTurnoverRates)
	analyticsGroup.Get("/reorder-suggestions", analyticsHandler.GenerateReorderSuggestions)
	analyticsGroup.Get("/overstock", analyticsHandler.DetectOverstock)
	analyticsGroup.Get("/slow-movers", analyticsHandler.DetectSlowMovers)
	analyticsGroup.Post("/optimize", analyticsHandler.OptimizeInventory)
}
