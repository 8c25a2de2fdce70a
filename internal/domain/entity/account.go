package entity

import "time"

// Roles válidos para Account. La jerarquía NO es transitiva en la superficie de mutación:
// cada operación declara su conjunto de roles permitidos de forma explícita.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// rolePrecedence ordena los roles de mayor a menor privilegio. Se usa únicamente para
// colapsar múltiples role-claims de un identity provider externo a un solo rol local.
// El orden admin > manager > user es una convención asumida, no una regla del IdP.
var rolePrecedence = []string{RoleAdmin, RoleManager, RoleUser}

// ValidRole indica si s es uno de los roles conocidos.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleManager || s == RoleAdmin
}

// CollapseRoles reduce un conjunto de claims de rol al rol local de mayor privilegio.
// Claims desconocidos se ignoran. Si ninguno aplica, retorna RoleUser.
func CollapseRoles(claims []string) string {
	for _, role := range rolePrecedence {
		for _, c := range claims {
			if c == role {
				return role
			}
		}
	}
	return RoleUser
}

// Account representa una cuenta local del sistema. Para identidades autenticadas por el
// identity provider externo, PasswordHash queda vacío (la credencial vive en el IdP) y la
// fila actúa como "shadow account" creada de forma perezosa e idempotente.
type Account struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt; vacío para cuentas delegadas
	Role         string // user, manager, admin
	CreatedAt    time.Time
}
