package entity

import "time"

// Product representa un producto del inventario. Quantity es el stock disponible:
// fuera de ediciones explícitas, solo disminuye al aprobarse una orden.
type Product struct {
	ID        string
	Name      string
	SKU       string // código único
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
