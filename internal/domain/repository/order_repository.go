package repository

import (
	"context"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetForUpdate lee la orden bloqueándola para escritura (SELECT ... FOR UPDATE
	// dentro de una tx). Fuera de una tx se comporta como una lectura normal.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ListAll y ListByAccount devuelven las órdenes pre-joineadas con el nombre del
	// producto y el username del solicitante.
	ListAll(ctx context.Context) ([]*entity.OrderView, error)
	ListByAccount(ctx context.Context, accountID string) ([]*entity.OrderView, error)
	Count(ctx context.Context) (int, error)
}
