package entity

import "time"

// AuditRecord es una entrada inmutable del rastro de auditoría. Actor vacío significa
// acción anónima (se persiste como NULL en la tabla y como "anonymous" en el archivo).
type AuditRecord struct {
	ID        string
	Timestamp time.Time
	Actor     string
	Action    string
	Details   string
}
