package repository

import (
	"context"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	UpdateRole(ctx context.Context, id, role string) error
	List(ctx context.Context) ([]*entity.Account, error)
	Count(ctx context.Context) (int, error)
}
