package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/orders"
	"github.com/tu-usuario/inventory-ops/internal/application/usecase"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps dependencias para el router. Todo se construye una vez en cmd/api;
// aquí no hay estado global ni chequeos de modo de autenticación.
type RouterDeps struct {
	Provider  auth.Provider
	Sessions  *session.Store
	Recorder  *audit.Recorder
	ProductUC *usecase.ProductUseCase
	OrderUC   *orders.UseCase
	UserUC    *usecase.UserUseCase
	StatsUC   *usecase.StatsUseCase
	AuditUC   *usecase.AuditUseCase
	Pool      *pgxpool.Pool
	DevMode   bool
}

// Router registra las rutas de la API. Cada mutación y cada lectura admin declara
// su conjunto de roles permitidos de forma explícita: no existe un allow por defecto.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	resolver := NewIdentityResolver(deps.Sessions, deps.Provider)
	requireAuth := AuthMiddleware(resolver)

	// Auth
	authHandler := NewAuthHandler(deps.Provider, deps.Sessions, resolver, deps.Recorder, deps.DevMode)
	api.Post("/login", authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/me", authHandler.Me)

	// Monitor (sin autenticación: health y métricas deben responder siempre)
	monitorHandler := NewMonitorHandler(deps.Pool, deps.StatsUC, deps.AuditUC, deps.DevMode)
	api.Get("/health", monitorHandler.Health)
	api.Get("/metrics", monitorHandler.Metrics)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.DevMode)
	api.Get("/products", requireAuth, productHandler.List)
	api.Post("/products", requireAuth, RequireRole(entity.RoleManager, entity.RoleAdmin), productHandler.Create)
	api.Put("/products/:id", requireAuth, RequireRole(entity.RoleManager, entity.RoleAdmin), productHandler.Update)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC, deps.DevMode)
	api.Get("/orders", requireAuth, orderHandler.List)
	api.Post("/orders", requireAuth, RequireRole(entity.RoleUser, entity.RoleManager, entity.RoleAdmin), orderHandler.Create)
	api.Post("/orders/:id/approve", requireAuth, RequireRole(entity.RoleManager, entity.RoleAdmin), orderHandler.Approve)
	api.Post("/orders/:id/reject", requireAuth, RequireRole(entity.RoleManager, entity.RoleAdmin), orderHandler.Reject)

	// Admin: usuarios y auditoría
	userHandler := NewUserHandler(deps.UserUC, deps.DevMode)
	api.Get("/users", requireAuth, RequireRole(entity.RoleAdmin), userHandler.List)
	api.Post("/users", requireAuth, RequireRole(entity.RoleAdmin), userHandler.Create)
	api.Get("/logs", requireAuth, RequireRole(entity.RoleAdmin), monitorHandler.Logs)
}
