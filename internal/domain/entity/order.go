package entity

import "time"

// Estados de una orden. pending es el inicial; approved y rejected son terminales:
// desde un estado terminal no existe transición válida.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

// Order es una solicitud de consumo de stock de un producto, sujeta a aprobación.
type Order struct {
	ID        string
	AccountID string
	ProductID string
	Quantity  int
	Status    string
	CreatedAt time.Time
}

// IsPending indica si la orden todavía admite approve/reject.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// OrderView es una orden ya unida con los nombres para mostrar: quién la pidió y qué
// producto referencia. El listado la entrega pre-joineada, sin round trips adicionales.
type OrderView struct {
	Order
	ProductName string
	Requester   string
}
