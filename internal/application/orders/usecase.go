package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
	"github.com/tu-usuario/inventory-ops/pkg/metrics"
)

// UseCase es el motor del ciclo de vida de órdenes: pending -> approved | rejected,
// cada transición exactamente una vez. La aprobación descuenta stock en la misma
// transacción que cambia el estado.
type UseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	tx          TxRunner
	recorder    *audit.Recorder
}

// NewUseCase construye el motor de órdenes.
func NewUseCase(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, tx TxRunner, recorder *audit.Recorder) *UseCase {
	return &UseCase{orderRepo: orderRepo, productRepo: productRepo, tx: tx, recorder: recorder}
}

// Submit crea una orden pending a nombre de la identidad. No valida disponibilidad
// de stock: el stock se reserva y consume solo en la aprobación (política explícita,
// no una omisión).
func (uc *UseCase) Submit(ctx context.Context, identity *auth.Identity, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	order := &entity.Order{
		ID:        uuid.New().String(),
		AccountID: identity.AccountID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Status:    entity.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	uc.recorder.Record(identity.Username, "create_order", fmt.Sprintf("id=%s, product_id=%s", order.ID, order.ProductID))
	return dto.ToOrderResponse(order), nil
}

// Approve aprueba una orden pending y descuenta el stock del producto. Ambas
// escrituras van en una sola transacción: o commitean juntas o ninguna queda visible.
// El descuento no aplica piso, el stock puede quedar negativo (comportamiento
// histórico; ver DESIGN.md).
func (uc *UseCase) Approve(ctx context.Context, identity *auth.Identity, orderID string) error {
	err := uc.tx.Run(ctx, func(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("leer orden: %w", err)
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !order.IsPending() {
			return domain.ErrInvalidTransition
		}
		if err := orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusApproved); err != nil {
			return fmt.Errorf("aprobar orden: %w", err)
		}
		if err := productRepo.AdjustQuantity(ctx, order.ProductID, -order.Quantity); err != nil {
			return fmt.Errorf("descontar stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Solo después del commit: una transición fallida no deja rastro ni duplicados.
	metrics.OrderTransitionsTotal.WithLabelValues(entity.OrderStatusApproved).Inc()
	uc.recorder.Record(identity.Username, "approve_order", "id="+orderID)
	return nil
}

// Reject rechaza una orden pending. No toca stock. Una orden ya terminal falla con
// ErrInvalidTransition, igual que en Approve.
func (uc *UseCase) Reject(ctx context.Context, identity *auth.Identity, orderID string) error {
	err := uc.tx.Run(ctx, func(orderRepo repository.OrderRepository, _ repository.ProductRepository) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("leer orden: %w", err)
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !order.IsPending() {
			return domain.ErrInvalidTransition
		}
		return orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusRejected)
	})
	if err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(entity.OrderStatusRejected).Inc()
	uc.recorder.Record(identity.Username, "reject_order", "id="+orderID)
	return nil
}

// List devuelve las órdenes visibles para la identidad, pre-joineadas con el nombre
// del producto y el username del solicitante. Rol user ve solo las propias;
// manager y admin ven todas.
func (uc *UseCase) List(ctx context.Context, identity *auth.Identity) ([]*dto.OrderResponse, error) {
	var (
		views []*entity.OrderView
		err   error
	)
	if identity.Role == entity.RoleUser {
		views, err = uc.orderRepo.ListByAccount(ctx, identity.AccountID)
	} else {
		views, err = uc.orderRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}

	out := make([]*dto.OrderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.ToOrderViewResponse(v))
	}
	return out, nil
}
