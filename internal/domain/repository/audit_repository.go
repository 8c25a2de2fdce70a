package repository

import (
	"context"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para el rastro de auditoría.
// Append-only: no hay update ni delete.
type AuditRepository interface {
	Append(ctx context.Context, record *entity.AuditRecord) error
	// ListRecent devuelve los registros más nuevos primero, hasta limit.
	ListRecent(ctx context.Context, limit int) ([]*entity.AuditRecord, error)
}
