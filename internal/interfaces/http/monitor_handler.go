package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/inventory-ops/internal/application/usecase"
)

// MonitorHandler endpoints de monitoreo y auditoría: health con ping a la DB,
// conteos de entidades y lectura del rastro de auditoría.
type MonitorHandler struct {
	pool    *pgxpool.Pool
	stats   *usecase.StatsUseCase
	logs    *usecase.AuditUseCase
	devMode bool
}

// NewMonitorHandler construye el handler de monitoreo.
func NewMonitorHandler(pool *pgxpool.Pool, stats *usecase.StatsUseCase, logs *usecase.AuditUseCase, devMode bool) *MonitorHandler {
	return &MonitorHandler{pool: pool, stats: stats, logs: logs, devMode: devMode}
}

// Health godoc
// @Summary      Health check con ping a la base de datos
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/health [get]
func (h *MonitorHandler) Health(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_error"})
	}
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// Metrics godoc
// @Summary      Conteos de entidades (sin autenticación)
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/metrics [get]
func (h *MonitorHandler) Metrics(c *fiber.Ctx) error {
	counts, err := h.stats.Counts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no se pudieron obtener métricas"})
	}
	return c.JSON(counts)
}

// Logs godoc
// @Summary      Registros de auditoría recientes, más nuevos primero (admin)
// @Tags         monitor
// @Produce      json
// @Success      200  {array}  dto.AuditLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *MonitorHandler) Logs(c *fiber.Ctx) error {
	records, err := h.logs.Recent(c.Context())
	if err != nil {
		return domainError(c, err, h.devMode)
	}
	return c.JSON(records)
}
