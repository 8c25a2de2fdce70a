package usecase

import (
	"context"
	"fmt"

	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

// recentLogsCap tope de registros devueltos por GET /api/logs.
const recentLogsCap = 100

// AuditUseCase lectura del rastro de auditoría (solo admin).
type AuditUseCase struct {
	repo repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso de auditoría.
func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// Recent devuelve los registros más nuevos primero, hasta el tope fijo.
func (uc *AuditUseCase) Recent(ctx context.Context) ([]*dto.AuditLogResponse, error) {
	records, err := uc.repo.ListRecent(ctx, recentLogsCap)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	out := make([]*dto.AuditLogResponse, 0, len(records))
	for _, r := range records {
		out = append(out, &dto.AuditLogResponse{
			Timestamp: r.Timestamp,
			Actor:     r.Actor,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return out, nil
}
