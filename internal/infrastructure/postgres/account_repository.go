package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
// Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una nueva cuenta. Username duplicado retorna ErrDuplicate.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		account.ID, account.Username, account.PasswordHash, account.Role, account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. Retorna nil sin error si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.scanOne(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM accounts WHERE id = $1`, id)
}

// GetByUsername obtiene una cuenta por username. Retorna nil sin error si no existe.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.scanOne(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM accounts WHERE username = $1`, username)
}

func (r *AccountRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// UpdateRole actualiza solo el rol (refresco de shadow accounts delegadas).
func (r *AccountRepo) UpdateRole(ctx context.Context, id, role string) error {
	_, err := r.q.Exec(ctx, `UPDATE accounts SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update account role: %w", err)
	}
	return nil
}

// List devuelve todas las cuentas ordenadas por fecha de creación.
func (r *AccountRepo) List(ctx context.Context) ([]*entity.Account, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Count devuelve el total de cuentas.
func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
