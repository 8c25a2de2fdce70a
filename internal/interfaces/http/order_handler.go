package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/application/orders"
)

// OrderHandler maneja el ciclo de vida de órdenes.
type OrderHandler struct {
	uc      *orders.UseCase
	devMode bool
}

// NewOrderHandler construye el handler de órdenes.
func NewOrderHandler(uc *orders.UseCase, devMode bool) *OrderHandler {
	return &OrderHandler{uc: uc, devMode: devMode}
}

// List godoc
// @Summary      Listar órdenes (scoped por rol)
// @Tags         orders
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetIdentity(c))
	if err != nil {
		return domainError(c, err, h.devMode)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden (cualquier identidad autenticada)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	order, err := h.uc.Submit(c.Context(), GetIdentity(c), in)
	if err != nil {
		return domainError(c, err, h.devMode)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Approve godoc
// @Summary      Aprobar orden pending (manager|admin)
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.Approve(c.Context(), GetIdentity(c), c.Params("id")); err != nil {
		return domainError(c, err, h.devMode)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Reject godoc
// @Summary      Rechazar orden pending (manager|admin)
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.Context(), GetIdentity(c), c.Params("id")); err != nil {
		return domainError(c, err, h.devMode)
	}
	return c.JSON(fiber.Map{"ok": true})
}
