package dto

import (
	"time"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// CreateUserRequest alta de cuenta local (solo admin).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=user manager admin"`
}

// UserResponse cuenta expuesta por la API. Nunca incluye el hash de credencial.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse mapea la entidad al DTO de salida.
func ToUserResponse(a *entity.Account) *UserResponse {
	if a == nil {
		return nil
	}
	return &UserResponse{ID: a.ID, Username: a.Username, Role: a.Role, CreatedAt: a.CreatedAt}
}

// AuditLogResponse registro de auditoría expuesto en GET /api/logs.
type AuditLogResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"username,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// MetricsResponse conteos de entidades para GET /api/metrics.
type MetricsResponse struct {
	UserCount    int `json:"user_count"`
	ProductCount int `json:"product_count"`
	OrderCount   int `json:"order_count"`
}
