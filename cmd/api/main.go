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

	"github.com/jhoicas/Granja-api/internal/application/auth"
	"github.com/jhoicas/Granja-api/internal/application/inventory"
	"github.com/jhoicas/Granja-api/internal/application/purchase"
	"github.com/jhoicas/Granja-api/internal/infrastructure/idempotency"
	infrapdf "github.com/jhoicas/Granja-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Granja-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Granja-api/internal/interfaces/http"
	"github.com/jhoicas/Granja-api/pkg/config"
	"github.com/jhoicas/Granja-api/pkg/logger"
	"github.com/jhoicas/Granja-api/pkg/metrics"
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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("allow_negative_stock", cfg.Inventory.AllowNegativeStock).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		db, err := postgres.OpenSQL(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("abrir BD para migraciones")
		}
		if err := postgres.Migrate(ctx, db, "up"); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = db.Close()
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Métricas: sin METRICS_ENABLED los casos de uso usan contadores no-op.
	var (
		mtr           *metrics.Metrics
		ledgerMetrics inventory.LedgerMetrics
		flowMetrics   purchase.WorkflowMetrics
	)
	if cfg.Metrics.Enabled {
		mtr = metrics.New(cfg.App.Name)
		ledgerMetrics, flowMetrics = mtr, mtr
	}

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	txRepo := postgres.NewInventoryTransactionRepository(pool)
	purchaseRepo := postgres.NewPurchaseRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	itemUC := inventory.NewItemUseCase(itemRepo, txRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, txRepo,
		inventory.Policy{AllowNegativeStock: cfg.Inventory.AllowNegativeStock},
		ledgerMetrics, log)
	reportUC := inventory.NewReportUseCase(itemRepo, txRepo, infrapdf.NewKardexGenerator())
	purchaseUC := purchase.NewUseCase(txRunner, purchaseRepo, flowMetrics, log)

	deps := httpRouter.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     itemUC,
		LedgerUC:   ledgerUC,
		KardexUC:   reportUC,
		PurchaseUC: purchaseUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	}

	// Redis opcional: habilita Idempotency-Key en entradas, salidas y ajustes.
	if cfg.Redis.Enabled() {
		store, err := idempotency.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		deps.Idempotency = store
		log.Info().Msg("idempotencia habilitada")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log))
	if mtr != nil {
		app.Use(mtr.Middleware())
		app.Get("/metrics", mtr.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Granja API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		hctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(hctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name, "db": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

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

	log.Info().Msg("aplicación detenida")
}
