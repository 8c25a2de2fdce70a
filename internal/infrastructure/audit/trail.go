// Package audit contiene el sink secundario del rastro de auditoría: un archivo
// plano append-only, legible por humanos, con el formato histórico
//
//	2024-05-01T12:00:00Z | admin | approve_order | id=42
//
// Es best-effort por contrato: quien escribe decide qué hacer con un error.
package audit

import (
	"fmt"
	"os"
	"sync"

	appaudit "github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

var _ appaudit.TrailWriter = (*FileTrail)(nil)

// FileTrail escribe registros pipe-delimited con timestamp ISO-8601 a un archivo
// abierto en modo append. El mutex preserva el orden de escritura entre llamadas.
type FileTrail struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileTrail abre (o crea) el archivo de auditoría en modo append.
func NewFileTrail(path string) (*FileTrail, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("abrir archivo de auditoría: %w", err)
	}
	return &FileTrail{file: f}, nil
}

// Append escribe una línea por registro. Actor vacío se escribe como "anonymous".
func (t *FileTrail) Append(record *entity.AuditRecord) error {
	actor := record.Actor
	if actor == "" {
		actor = "anonymous"
	}
	line := fmt.Sprintf("%s | %s | %s | %s\n",
		record.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		actor, record.Action, record.Details,
	)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.file.WriteString(line); err != nil {
		return fmt.Errorf("append auditoría: %w", err)
	}
	return nil
}

// Close cierra el archivo.
func (t *FileTrail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
