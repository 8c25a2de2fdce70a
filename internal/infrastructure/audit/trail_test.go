package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
)

func newTempTrail(t *testing.T) (*FileTrail, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := NewFileTrail(path)
	require.NoError(t, err)
	t.Cleanup(func() { trail.Close() })
	return trail, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestFileTrail_FormatoPipeDelimited(t *testing.T) {
	trail, path := newTempTrail(t)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, trail.Append(&entity.AuditRecord{
		Timestamp: ts,
		Actor:     "admin",
		Action:    "approve_order",
		Details:   "id=42",
	}))

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "2024-05-01T12:00:00.000Z | admin | approve_order | id=42", lines[0])
}

func TestFileTrail_ActorVacioSeEscribeComoAnonymous(t *testing.T) {
	trail, path := newTempTrail(t)

	require.NoError(t, trail.Append(&entity.AuditRecord{
		Timestamp: time.Now(),
		Action:    "login",
	}))

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "| anonymous | login |")
}

func TestFileTrail_AppendPreservaLoExistente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, os.WriteFile(path, []byte("linea previa\n"), 0o644))

	trail, err := NewFileTrail(path)
	require.NoError(t, err)
	defer trail.Close()

	require.NoError(t, trail.Append(&entity.AuditRecord{Timestamp: time.Now(), Actor: "a", Action: "x"}))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "linea previa", lines[0])
}

func TestFileTrail_OrdenDeEscritura(t *testing.T) {
	trail, path := newTempTrail(t)

	for _, action := range []string{"primero", "segundo", "tercero"} {
		require.NoError(t, trail.Append(&entity.AuditRecord{Timestamp: time.Now(), Actor: "a", Action: action}))
	}

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "primero")
	assert.Contains(t, lines[1], "segundo")
	assert.Contains(t, lines[2], "tercero")
}

func TestNewFileTrail_DirectorioInexistente(t *testing.T) {
	_, err := NewFileTrail(filepath.Join(t.TempDir(), "no-existe", "audit.log"))
	assert.Error(t, err)
}
