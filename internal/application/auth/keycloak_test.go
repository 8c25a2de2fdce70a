package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// stubVerifier devuelve claims precargados por token, sin firma de por medio.
type stubVerifier struct {
	claims map[string]*auth.TokenClaims
}

var _ auth.TokenVerifier = (*stubVerifier)(nil)

func (v *stubVerifier) Verify(_ context.Context, rawToken string) (*auth.TokenClaims, error) {
	c, ok := v.claims[rawToken]
	if !ok {
		return nil, errors.New("token inválido")
	}
	return c, nil
}

func (v *stubVerifier) EndSessionURL(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return "https://idp.example/realms/inventory-realm/protocol/openid-connect/logout?session_state=" + sessionID
}

func newKeycloakProvider(accounts *fakeAccountRepo, auditRepo *fakeAuditRepo, verifier *stubVerifier) *auth.KeycloakProvider {
	recorder := newRecorder(auditRepo)
	local := auth.NewLocalProvider(accounts, recorder)
	return auth.NewKeycloakProvider(local, verifier, accounts, recorder)
}

func TestResolveToken_CreaShadowAccountLaPrimeraVez(t *testing.T) {
	accounts := newFakeAccountRepo()
	auditRepo := &fakeAuditRepo{}
	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-ana": {Username: "ana", Roles: []string{"manager", "offline_access"}, SessionID: "sess-1"},
	}}
	provider := newKeycloakProvider(accounts, auditRepo, verifier)

	id, err := provider.ResolveToken(context.Background(), "tok-ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", id.Username)
	assert.Equal(t, entity.RoleManager, id.Role)

	// La cuenta quedó materializada, sin credencial local.
	account, err := accounts.GetByUsername(context.Background(), "ana")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Empty(t, account.PasswordHash)
	assert.Equal(t, entity.RoleManager, account.Role)
}

func TestResolveToken_EsIdempotente(t *testing.T) {
	accounts := newFakeAccountRepo()
	auditRepo := &fakeAuditRepo{}
	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-ana": {Username: "ana", Roles: []string{"user"}, SessionID: "sess-1"},
	}}
	provider := newKeycloakProvider(accounts, auditRepo, verifier)

	first, err := provider.ResolveToken(context.Background(), "tok-ana")
	require.NoError(t, err)
	second, err := provider.ResolveToken(context.Background(), "tok-ana")
	require.NoError(t, err)

	// Misma cuenta en ambas resoluciones y una sola creación auditada.
	assert.Equal(t, first.AccountID, second.AccountID)
	n, err := accounts.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolveToken_RefrescaRolSiLosClaimsCambiaron(t *testing.T) {
	accounts := newFakeAccountRepo()
	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-v1": {Username: "ana", Roles: []string{"user"}, SessionID: "s"},
		"tok-v2": {Username: "ana", Roles: []string{"admin", "user"}, SessionID: "s"},
	}}
	provider := newKeycloakProvider(accounts, &fakeAuditRepo{}, verifier)

	_, err := provider.ResolveToken(context.Background(), "tok-v1")
	require.NoError(t, err)

	id, err := provider.ResolveToken(context.Background(), "tok-v2")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	// El rol persistido también se actualizó.
	account, err := accounts.GetByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, account.Role)
}

// racingAccountRepo simula la carrera de materialización: la primera búsqueda no ve
// la fila (otra petición la está insertando) y el Create posterior choca con el
// índice único; la relectura sí la encuentra.
type racingAccountRepo struct {
	*fakeAccountRepo
	missedFirstGet bool
}

func (r *racingAccountRepo) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	if !r.missedFirstGet {
		r.missedFirstGet = true
		return nil, nil
	}
	return r.fakeAccountRepo.GetByUsername(ctx, username)
}

func (r *racingAccountRepo) Create(context.Context, *entity.Account) error {
	return domain.ErrDuplicate
}

func TestResolveToken_CarreraDeCreacion_ReusaLaFilaExistente(t *testing.T) {
	inner := newFakeAccountRepo()
	seedAccount(t, inner, "ana", "", entity.RoleUser)
	accounts := &racingAccountRepo{fakeAccountRepo: inner}

	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-ana": {Username: "ana", Roles: []string{"user"}, SessionID: "s"},
	}}
	recorder := newRecorder(&fakeAuditRepo{})
	local := auth.NewLocalProvider(accounts, recorder)
	provider := auth.NewKeycloakProvider(local, verifier, accounts, recorder)

	id, err := provider.ResolveToken(context.Background(), "tok-ana")
	require.NoError(t, err)
	assert.Equal(t, "id-ana", id.AccountID)
}

func TestResolveToken_TokenInvalidoOSinUsername(t *testing.T) {
	accounts := newFakeAccountRepo()
	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-anon": {Username: "", Roles: []string{"user"}},
	}}
	provider := newKeycloakProvider(accounts, &fakeAuditRepo{}, verifier)

	_, err := provider.ResolveToken(context.Background(), "tok-desconocido")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = provider.ResolveToken(context.Background(), "tok-anon")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestKeycloakProvider_LoginDelegaEnElLocal(t *testing.T) {
	// Las cuentas seed con password siguen funcionando con el IdP activo.
	accounts := newFakeAccountRepo()
	seedAccount(t, accounts, "admin", "admin123", entity.RoleAdmin)
	provider := newKeycloakProvider(accounts, &fakeAuditRepo{}, &stubVerifier{})

	id, err := provider.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, id.Role)
}

func TestLogoutURL_FuncionDelSessionID(t *testing.T) {
	verifier := &stubVerifier{claims: map[string]*auth.TokenClaims{
		"tok-con-sid": {Username: "ana", SessionID: "sess-42"},
		"tok-sin-sid": {Username: "ana"},
	}}
	provider := newKeycloakProvider(newFakeAccountRepo(), &fakeAuditRepo{}, verifier)

	assert.Contains(t, provider.LogoutURL("tok-con-sid"), "session_state=sess-42")
	assert.Empty(t, provider.LogoutURL("tok-sin-sid"))
	assert.Empty(t, provider.LogoutURL("tok-ilegible"))
	assert.Equal(t, "keycloak", provider.Mode())
}
