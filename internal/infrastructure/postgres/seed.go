package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures de desarrollo: las mismas cuentas y productos que trae el sistema desde
// siempre. El seed es idempotente (ON CONFLICT DO NOTHING sobre username/sku), así
// que correrlo en cada arranque no duplica nada.
var seedAccounts = []struct {
	username string
	password string
	role     string
}{
	{"admin", "admin123", entity.RoleAdmin},
	{"manager", "manager123", entity.RoleManager},
	{"user", "user123", entity.RoleUser},
}

var seedProducts = []struct {
	name     string
	sku      string
	quantity int
}{
	{"Server Rack", "SRV-RACK-01", 10},
	{"Network Switch", "NET-SW-24", 25},
	{"UPS Battery", "UPS-BAT-09", 15},
}

// Seed inserta las cuentas y productos por defecto si no existen.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, a := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO accounts (id, username, password_hash, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (username) DO NOTHING`,
			uuid.New().String(), a.username, string(hash), a.role,
		)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.username, err)
		}
	}

	for _, p := range seedProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, sku, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (sku) DO NOTHING`,
			uuid.New().String(), p.name, p.sku, p.quantity,
		)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.sku, err)
		}
	}
	return nil
}
