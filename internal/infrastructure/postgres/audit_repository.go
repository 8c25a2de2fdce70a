package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de persistencia para auditoría.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un registro. Actor vacío se persiste como NULL.
func (r *AuditRepo) Append(ctx context.Context, record *entity.AuditRecord) error {
	var actor any
	if record.Actor != "" {
		actor = record.Actor
	}
	var details any
	if record.Details != "" {
		details = record.Details
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, timestamp, username, action, details)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Timestamp, actor, record.Action, details,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// ListRecent devuelve los registros más nuevos primero, hasta limit.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]*entity.AuditRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, timestamp, username, action, details
		FROM audit_logs ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditRecord
	for rows.Next() {
		var (
			rec     entity.AuditRecord
			actor   sql.NullString
			details sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &actor, &rec.Action, &details); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.Actor = actor.String
		rec.Details = details.String
		list = append(list, &rec)
	}
	return list, rows.Err()
}
