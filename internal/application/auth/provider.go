package auth

import "context"

// Identity es el llamador resuelto para una petición: cuenta local, username y un
// único rol local. Vive lo que dura la petición; se reconstruye siempre desde la
// sesión o el token, nunca se cachea entre peticiones.
type Identity struct {
	AccountID string
	Username  string
	Role      string
}

// Provider resuelve credenciales a una identidad. Hay dos implementaciones concretas,
// elegidas una sola vez en el arranque según configuración:
//
//   - LocalProvider: username/password contra el hash almacenado + sesión de servidor.
//   - KeycloakProvider: además acepta bearer tokens del identity provider externo.
//
// Ningún handler decide el modo por su cuenta: todos reciben el Provider ya construido.
type Provider interface {
	// Login valida username/password en modo local. Falla con ErrInvalidCredentials
	// sin distinguir cuál de los dos campos es incorrecto.
	Login(ctx context.Context, username, password string) (*Identity, error)
	// ResolveToken resuelve un bearer token delegado. En modo local retorna
	// ErrUnauthenticated: no hay IdP que lo respalde.
	ResolveToken(ctx context.Context, rawToken string) (*Identity, error)
	// LogoutURL construye la URL de end-session del IdP para el token dado.
	// En modo local retorna cadena vacía.
	LogoutURL(rawToken string) string
	// Mode identifica la implementación ("local" o "keycloak"); se usa en logs y métricas.
	Mode() string
}

// TokenClaims es lo que el verificador de tokens extrae de un bearer token ya
// validado. La emisión y firma del token son asunto del IdP; aquí solo se consumen
// claims verificados.
type TokenClaims struct {
	Username  string
	Roles     []string // claims de rol del realm y del cliente, sin colapsar
	SessionID string   // claim "sid", requerido para end-session
}

// TokenVerifier define el puerto hacia el identity provider externo.
// Lo implementa infrastructure/keycloak.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*TokenClaims, error)
	EndSessionURL(sessionID string) string
}
