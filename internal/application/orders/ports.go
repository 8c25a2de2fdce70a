package orders

import (
	"context"

	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el flip de estado y el ajuste de stock de una
// aprobación commiteen juntos o no commiteen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}
