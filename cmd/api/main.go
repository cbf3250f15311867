package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vendly/stockcore-api/internal/application/analytics"
	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/internal/infrastructure/cache"
	"github.com/vendly/stockcore-api/internal/infrastructure/events"
	"github.com/vendly/stockcore-api/internal/infrastructure/postgres"
	httpRouter "github.com/vendly/stockcore-api/internal/interfaces/http"
	"github.com/vendly/stockcore-api/pkg/config"
	"github.com/vendly/stockcore-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin él no hay caché de overview ni eventos, el
	// resto de la API funciona igual.
	var (
		overviewCache analytics.OverviewCache
		publisher     ledger.EventPublisher
		redisPub      *events.RedisPublisher
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()

		overviewCache = cache.NewOverviewCache(
			redisClient,
			time.Duration(cfg.Analytics.OverviewTTLSeconds)*time.Second,
		)
		redisPub = events.NewRedisPublisher(
			redisClient,
			cfg.Analytics.EventChannel,
			cfg.Analytics.EventBufferSize,
			log,
		)
		publisher = redisPub
	}

	ledgerUC := ledger.NewUseCase(txRunner, productRepo, movementRepo, publisher, ledger.Config{
		LowStockFactor: cfg.Analytics.LowStockFactor,
	})

	abcUC := analytics.NewAbcUseCase(txRunner, productRepo, salesRepo)
	turnoverUC := analytics.NewTurnoverUseCase(productRepo, movementRepo)
	reorderUC := analytics.NewReorderUseCase(productRepo, movementRepo, analytics.ReorderConfig{
		SafetyFactor:          cfg.Analytics.ReorderSafetyFactor,
		LowStockFactor:        cfg.Analytics.LowStockFactor,
		ConsumptionWindowDays: cfg.Analytics.ConsumptionWindowDays,
	})
	detectorUC := analytics.NewDetectorUseCase(productRepo, movementRepo, analytics.DetectorConfig{
		ThresholdFactor: cfg.Analytics.OverstockThresholdFactor,
	})
	optimizerUC := analytics.NewOptimizerUseCase(
		abcUC, turnoverUC, detectorUC, productRepo, log, cfg.Analytics.DefaultPeriodDays,
	)
	overviewUC := analytics.NewOverviewUseCase(productRepo, overviewCache, cfg.Analytics.LowStockFactor)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockCore API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:          ledgerUC,
		AbcUC:             abcUC,
		TurnoverUC:        turnoverUC,
		ReorderUC:         reorderUC,
		DetectorUC:        detectorUC,
		OptimizerUC:       optimizerUC,
		OverviewUC:        overviewUC,
		DefaultPeriodDays: cfg.Analytics.DefaultPeriodDays,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if redisPub != nil {
		redisPub.Close()
	}

	log.Info().Msg("aplicación detenida")
}
