package usecase

import (
	"context"
	"fmt"

	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

// StatsUseCase conteos de entidades para el endpoint de monitoreo GET /api/metrics.
type StatsUseCase struct {
	accounts repository.AccountRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewStatsUseCase construye el caso de uso de estadísticas.
func NewStatsUseCase(accounts repository.AccountRepository, products repository.ProductRepository, orders repository.OrderRepository) *StatsUseCase {
	return &StatsUseCase{accounts: accounts, products: products, orders: orders}
}

// Counts devuelve los totales de usuarios, productos y órdenes.
func (uc *StatsUseCase) Counts(ctx context.Context) (*dto.MetricsResponse, error) {
	users, err := uc.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar usuarios: %w", err)
	}
	products, err := uc.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar productos: %w", err)
	}
	orders, err := uc.orders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar órdenes: %w", err)
	}
	return &dto.MetricsResponse{UserCount: users, ProductCount: products, OrderCount: orders}, nil
}
