package repository

import (
	"context"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	// AdjustQuantity suma delta (puede ser negativo) al stock del producto.
	// No aplica piso: el stock puede quedar negativo. Ver decisión en DESIGN.md.
	AdjustQuantity(ctx context.Context, productID string, delta int) error
}
