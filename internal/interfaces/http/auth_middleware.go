package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/domain"
)

// Locals key para la identidad resuelta en Fiber.
const LocalIdentity = "identity"

// Claves dentro de la sesión de servidor.
const (
	sessionKeyAccountID = "account_id"
	sessionKeyUsername  = "username"
	sessionKeyRole      = "role"
)

// IdentityResolver reconstruye la identidad de la petición en cada request: primero
// el bearer token (si el proveedor lo soporta), después la sesión de servidor.
// El proveedor se elige una vez en el arranque; aquí no hay chequeos de modo.
type IdentityResolver struct {
	sessions *session.Store
	provider auth.Provider
}

// NewIdentityResolver construye el resolver.
func NewIdentityResolver(sessions *session.Store, provider auth.Provider) *IdentityResolver {
	return &IdentityResolver{sessions: sessions, provider: provider}
}

// Resolve devuelve la identidad del llamador o ErrUnauthenticated.
func (r *IdentityResolver) Resolve(c *fiber.Ctx) (*auth.Identity, error) {
	if token := bearerToken(c); token != "" {
		return r.provider.ResolveToken(c.Context(), token)
	}

	sess, err := r.sessions.Get(c)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	accountID, _ := sess.Get(sessionKeyAccountID).(string)
	if accountID == "" {
		return nil, domain.ErrUnauthenticated
	}
	username, _ := sess.Get(sessionKeyUsername).(string)
	role, _ := sess.Get(sessionKeyRole).(string)
	return &auth.Identity{AccountID: accountID, Username: username, Role: role}, nil
}

// bearerToken extrae el token del header Authorization ("" si no viene bien formado).
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware resuelve la identidad y la deja en c.Locals. Sin identidad responde
// 401 sin detalle (no se revela si hubo token inválido, sesión vencida, etc.).
func AuthMiddleware(resolver *IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := resolver.Resolve(c)
		if err != nil || identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "no autenticado"})
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// RequireRole autoriza solo si el rol de la identidad está en el conjunto permitido.
// Cada ruta declara su conjunto explícito; no hay allow por defecto ni herencia
// entre roles. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil || identity.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "no autenticado"})
		}
		if _, ok := allowed[identity.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) *auth.Identity {
	v := c.Locals(LocalIdentity)
	if v == nil {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
