package dto

import (
	"time"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// CreateOrderRequest solicitud de consumo de stock. No se valida disponibilidad al
// crear: el stock se consume únicamente en la aprobación.
type CreateOrderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderResponse orden expuesta por la API, con los nombres ya unidos.
type OrderResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Requester   string    `json:"requester,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToOrderResponse mapea una orden simple (sin join) al DTO de salida.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// ToOrderViewResponse mapea una orden pre-joineada al DTO de salida.
func ToOrderViewResponse(v *entity.OrderView) *OrderResponse {
	if v == nil {
		return nil
	}
	out := ToOrderResponse(&v.Order)
	out.ProductName = v.ProductName
	out.Requester = v.Requester
	return out
}
