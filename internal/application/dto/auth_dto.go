package dto

// LoginRequest credenciales para el modo de autenticación local.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IdentityResponse identidad resuelta de la petición actual (GET /api/me, login).
type IdentityResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LogoutResponse respuesta de logout. LogoutURL solo se incluye en modo delegado:
// es la URL de end-session del identity provider a la que el cliente debe redirigir.
type LogoutResponse struct {
	OK        bool   `json:"ok"`
	LogoutURL string `json:"logout_url,omitempty"`
}
