package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
)

// AuthHandler maneja login, logout y la identidad de la petición actual.
type AuthHandler struct {
	provider auth.Provider
	sessions *session.Store
	resolver *IdentityResolver
	recorder *audit.Recorder
	devMode  bool
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(provider auth.Provider, sessions *session.Store, resolver *IdentityResolver, recorder *audit.Recorder, devMode bool) *AuthHandler {
	return &AuthHandler{provider: provider, sessions: sessions, resolver: resolver, recorder: recorder, devMode: devMode}
}

// Login godoc
// @Summary      Iniciar sesión (modo local)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.IdentityResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	identity, err := h.provider.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		return domainError(c, err, h.devMode)
	}

	// Sesión de servidor atada a {id, username, role}; el cookie solo lleva el session id.
	sess, err := h.sessions.Get(c)
	if err != nil {
		return domainError(c, err, h.devMode)
	}
	sess.Set(sessionKeyAccountID, identity.AccountID)
	sess.Set(sessionKeyUsername, identity.Username)
	sess.Set(sessionKeyRole, identity.Role)
	if err := sess.Save(); err != nil {
		return domainError(c, err, h.devMode)
	}

	return c.JSON(dto.IdentityResponse{Username: identity.Username, Role: identity.Role})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LogoutResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var username string

	sess, err := h.sessions.Get(c)
	if err == nil {
		username, _ = sess.Get(sessionKeyUsername).(string)
		_ = sess.Destroy()
	}

	// En modo delegado el cliente además debe terminar la sesión en el IdP:
	// se le entrega la URL de end-session construida desde el token actual.
	out := dto.LogoutResponse{OK: true}
	if token := bearerToken(c); token != "" {
		if identity, err := h.provider.ResolveToken(c.Context(), token); err == nil {
			username = identity.Username
		}
		out.LogoutURL = h.provider.LogoutURL(token)
	}

	h.recorder.Record(username, "logout", "")
	return c.JSON(out)
}

// Me godoc
// @Summary      Identidad de la petición actual
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.IdentityResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := h.resolver.Resolve(c)
	if err != nil || identity == nil {
		// Sin identidad no es un error: el front pregunta "¿quién soy?" al cargar.
		return c.JSON(nil)
	}
	return c.JSON(dto.IdentityResponse{Username: identity.Username, Role: identity.Role})
}
