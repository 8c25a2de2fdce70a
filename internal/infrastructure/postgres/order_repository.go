package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL
// (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes.
// Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste una nueva orden (estado pending).
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, account_id, product_id, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.AccountID, order.ProductID, order.Quantity, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetForUpdate lee la orden con FOR UPDATE: dentro de una tx bloquea la fila y
// serializa aprobaciones concurrentes de la misma orden. Retorna nil si no existe.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, account_id, product_id, quantity, status, created_at
		FROM orders WHERE id = $1 FOR UPDATE`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.AccountID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return &o, nil
}

// UpdateStatus cambia el estado de la orden. La validación de transición es del
// motor de órdenes; aquí solo se escribe.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

const orderViewSelect = `
	SELECT o.id, o.account_id, o.product_id, o.quantity, o.status, o.created_at,
	       p.name AS product_name, a.username AS requester
	FROM orders o
	JOIN products p ON o.product_id = p.id
	JOIN accounts a ON o.account_id = a.id`

// ListAll devuelve todas las órdenes pre-joineadas con producto y solicitante.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*entity.OrderView, error) {
	rows, err := r.q.Query(ctx, orderViewSelect+` ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return scanOrderViews(rows)
}

// ListByAccount devuelve las órdenes de una cuenta, pre-joineadas.
func (r *OrderRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.OrderView, error) {
	rows, err := r.q.Query(ctx, orderViewSelect+` WHERE o.account_id = $1 ORDER BY o.created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders by account: %w", err)
	}
	defer rows.Close()
	return scanOrderViews(rows)
}

func scanOrderViews(rows pgx.Rows) ([]*entity.OrderView, error) {
	var list []*entity.OrderView
	for rows.Next() {
		var v entity.OrderView
		if err := rows.Scan(
			&v.ID, &v.AccountID, &v.ProductID, &v.Quantity, &v.Status, &v.CreatedAt,
			&v.ProductName, &v.Requester,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Count devuelve el total de órdenes.
func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
