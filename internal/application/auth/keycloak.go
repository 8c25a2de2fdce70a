package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
	"github.com/tu-usuario/inventory-ops/pkg/metrics"
)

var _ Provider = (*KeycloakProvider)(nil)

// KeycloakProvider acepta bearer tokens verificados por el IdP externo, además del
// login local de password (las cuentas seed siguen funcionando con Keycloak activo).
// El IdP es el sistema de registro de la autenticación: aquí no se re-verifica
// material de credencial, solo se consumen claims ya validados por firma.
type KeycloakProvider struct {
	local    *LocalProvider
	verifier TokenVerifier
	accounts repository.AccountRepository
	recorder *audit.Recorder
}

// NewKeycloakProvider construye el proveedor delegado envolviendo al local.
func NewKeycloakProvider(local *LocalProvider, verifier TokenVerifier, accounts repository.AccountRepository, recorder *audit.Recorder) *KeycloakProvider {
	return &KeycloakProvider{local: local, verifier: verifier, accounts: accounts, recorder: recorder}
}

// Login delega en el proveedor local: el password-grant del IdP no se usa aquí.
func (p *KeycloakProvider) Login(ctx context.Context, username, password string) (*Identity, error) {
	return p.local.Login(ctx, username, password)
}

// ResolveToken verifica el token, colapsa los role-claims al rol local de mayor
// privilegio y materializa (si hace falta) la shadow account de la identidad.
func (p *KeycloakProvider) ResolveToken(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Username == "" {
		return nil, domain.ErrUnauthenticated
	}

	role := entity.CollapseRoles(claims.Roles)
	account, err := p.ensureShadowAccount(ctx, claims.Username, role)
	if err != nil {
		return nil, err
	}

	return &Identity{AccountID: account.ID, Username: account.Username, Role: account.Role}, nil
}

// LogoutURL construye la URL de end-session para el token actual. Función pura del
// issuer configurado y del session id del token; con token ilegible retorna "".
func (p *KeycloakProvider) LogoutURL(rawToken string) string {
	claims, err := p.verifier.Verify(context.Background(), rawToken)
	if err != nil {
		return ""
	}
	return p.verifier.EndSessionURL(claims.SessionID)
}

// Mode identifica el proveedor.
func (p *KeycloakProvider) Mode() string { return "keycloak" }

// ensureShadowAccount es el get-or-create idempotente de la cuenta local espejo de
// una identidad externa verificada. La cuenta no guarda credencial (hash vacío) y
// su rol se refresca si los claims del IdP cambiaron.
func (p *KeycloakProvider) ensureShadowAccount(ctx context.Context, username, role string) (*entity.Account, error) {
	account, err := p.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("buscar shadow account: %w", err)
	}
	if account != nil {
		if account.Role != role {
			// El IdP manda: el rol local refleja los claims vigentes.
			if err := p.accounts.UpdateRole(ctx, account.ID, role); err != nil {
				return nil, fmt.Errorf("actualizar rol de shadow account: %w", err)
			}
			account.Role = role
		}
		return account, nil
	}

	account = &entity.Account{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Carrera con otra petición del mismo usuario: la fila ya existe.
			return p.accounts.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("crear shadow account: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(p.Mode()).Inc()
	p.recorder.Record(username, "create_user", "shadow account, role="+role)
	return account, nil
}
