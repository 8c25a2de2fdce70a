package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
	"github.com/tu-usuario/inventory-ops/pkg/logger"
	"github.com/tu-usuario/inventory-ops/pkg/metrics"
)

// TrailWriter es el sink secundario del rastro de auditoría: un archivo append-only
// legible por humanos. Lo implementa infrastructure/audit.FileTrail.
type TrailWriter interface {
	Append(record *entity.AuditRecord) error
}

// Recorder registra acciones sensibles en dos sinks (tabla audit_logs y archivo plano)
// de forma fire-and-forget: Record nunca bloquea ni falla la operación que lo dispara.
// Un único worker consume el buffer, así el orden de envío se preserva dentro de cada
// sink. Entre sinks no se garantiza orden relativo ni atomicidad: ambos son best-effort.
type Recorder struct {
	repo  repository.AuditRepository
	trail TrailWriter
	log   *logger.Logger

	ch   chan *entity.AuditRecord
	wg   sync.WaitGroup
	once sync.Once
}

// NewRecorder construye el recorder y arranca su worker. bufferSize acota la cola:
// si se llena, los registros nuevos se descartan (contados en métricas).
func NewRecorder(repo repository.AuditRepository, trail TrailWriter, log *logger.Logger, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &Recorder{
		repo:  repo,
		trail: trail,
		log:   log,
		ch:    make(chan *entity.AuditRecord, bufferSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record encola un registro de auditoría. actor vacío = acción anónima.
// No bloquea: con el buffer lleno el registro se pierde (best-effort declarado).
func (r *Recorder) Record(actor, action, details string) {
	rec := &entity.AuditRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		Details:   details,
	}
	select {
	case r.ch <- rec:
	default:
		metrics.AuditDroppedTotal.Inc()
		r.log.Warn().Str("action", action).Msg("buffer de auditoría lleno, registro descartado")
	}
}

// Close deja de aceptar registros y espera a que el worker drene el buffer.
// Pensado para el apagado ordenado del proceso.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.ch) })
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for rec := range r.ch {
		// Cada sink falla por separado; el error se registra y se traga.
		if err := r.repo.Append(context.Background(), rec); err != nil {
			r.log.Warn().Err(err).Str("action", rec.Action).Msg("no se pudo persistir registro de auditoría")
		}
		if err := r.trail.Append(rec); err != nil {
			r.log.Warn().Err(err).Str("action", rec.Action).Msg("no se pudo escribir el archivo de auditoría")
		}
	}
}
