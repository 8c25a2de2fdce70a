package auth

import (
	"context"
	"fmt"

	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
	"github.com/tu-usuario/inventory-ops/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

var _ Provider = (*LocalProvider)(nil)

// LocalProvider autentica contra la tabla de cuentas con bcrypt. Es el modo por
// defecto cuando no hay identity provider externo configurado.
type LocalProvider struct {
	accounts repository.AccountRepository
	recorder *audit.Recorder
}

// NewLocalProvider construye el proveedor local.
func NewLocalProvider(accounts repository.AccountRepository, recorder *audit.Recorder) *LocalProvider {
	return &LocalProvider{accounts: accounts, recorder: recorder}
}

// Login verifica username/password. Ambos caminos de fallo (usuario inexistente y
// password incorrecto) retornan el mismo ErrInvalidCredentials.
func (p *LocalProvider) Login(ctx context.Context, username, password string) (*Identity, error) {
	account, err := p.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("buscar cuenta: %w", err)
	}
	if account == nil || account.PasswordHash == "" {
		metrics.LoginFailuresTotal.Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		metrics.LoginFailuresTotal.Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues(p.Mode()).Inc()
	p.recorder.Record(account.Username, "login", "Role="+account.Role)

	return &Identity{AccountID: account.ID, Username: account.Username, Role: account.Role}, nil
}

// ResolveToken no está soportado en modo local.
func (p *LocalProvider) ResolveToken(ctx context.Context, rawToken string) (*Identity, error) {
	return nil, domain.ErrUnauthenticated
}

// LogoutURL no aplica en modo local.
func (p *LocalProvider) LogoutURL(rawToken string) string { return "" }

// Mode identifica el proveedor.
func (p *LocalProvider) Mode() string { return "local" }
