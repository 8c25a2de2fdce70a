package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appaudit "github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/orders"
	"github.com/tu-usuario/inventory-ops/internal/application/usecase"
	infraaudit "github.com/tu-usuario/inventory-ops/internal/infrastructure/audit"
	"github.com/tu-usuario/inventory-ops/internal/infrastructure/keycloak"
	"github.com/tu-usuario/inventory-ops/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/inventory-ops/internal/interfaces/http"
	"github.com/tu-usuario/inventory-ops/pkg/config"
	"github.com/tu-usuario/inventory-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de base de datos")
	}
	if err := postgres.Seed(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("seed de datos por defecto")
	}

	accountRepo := postgres.NewAccountRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	trail, err := infraaudit.NewFileTrail(cfg.Audit.TrailPath)
	if err != nil {
		log.Fatal().Err(err).Msg("archivo de auditoría")
	}
	recorder := appaudit.NewRecorder(auditRepo, trail, log, cfg.Audit.BufferSize)

	// Proveedor de autenticación: se elige UNA vez aquí, según configuración.
	// Ningún handler vuelve a preguntar por el modo.
	localProvider := auth.NewLocalProvider(accountRepo, recorder)
	var provider auth.Provider = localProvider
	if cfg.Keycloak.Enabled {
		verifier, err := keycloak.New(cfg.Keycloak)
		if err != nil {
			log.Fatal().Err(err).Msg("verificador de Keycloak")
		}
		provider = auth.NewKeycloakProvider(localProvider, verifier, accountRepo, recorder)
		log.Info().Str("issuer", cfg.Keycloak.Issuer).Msg("autenticación delegada habilitada")
	}

	sessions := session.New(session.Config{
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		Expiration:     time.Duration(cfg.Session.ExpMinutes) * time.Minute,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	productUC := usecase.NewProductUseCase(productRepo, recorder)
	orderUC := orders.NewUseCase(orderRepo, productRepo, txRunner, recorder)
	userUC := usecase.NewUserUseCase(accountRepo, recorder)
	statsUC := usecase.NewStatsUseCase(accountRepo, productRepo, orderRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)

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
		Title:    "Inventory Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	// Métricas Prometheus, sin autenticación igual que health.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Provider:  provider,
		Sessions:  sessions,
		Recorder:  recorder,
		ProductUC: productUC,
		OrderUC:   orderUC,
		UserUC:    userUC,
		StatsUC:   statsUC,
		AuditUC:   auditUC,
		Pool:      pool,
		DevMode:   cfg.App.Env != "production",
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

	// Drenar el buffer de auditoría antes de soltar el archivo y el pool.
	recorder.Close()
	if err := trail.Close(); err != nil {
		log.Error().Err(err).Msg("cierre del archivo de auditoría")
	}

	log.Info().Msg("aplicación detenida")
}
