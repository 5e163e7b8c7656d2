package relayer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

// Downloader descarga una entidad completa y reemplaza su instantánea.
type Downloader interface {
	Download(ctx context.Context, entity sharedDomain.Entity, filter sharedDomain.FilterSpec) (int, error)
}

const DefaultRefreshInterval = 15 * time.Minute

// Worker refresca periódicamente las instantáneas sin conexión de varias entidades.
type Worker struct {
	downloader Downloader
	entities   []sharedDomain.Entity
	interval   time.Duration
	log        *zap.Logger
}

func NewRefreshWorker(
	downloader Downloader,
	entities []sharedDomain.Entity,
	interval time.Duration,
	log *zap.Logger,
) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Worker{
		downloader: downloader,
		entities:   entities,
		interval:   interval,
		log:        log,
	}
}

// Start refresca una vez y luego en cada tick hasta que se cancele el contexto. Es bloqueante.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Refresh worker iniciado", zap.Duration("interval", w.interval), zap.Int("entities", len(w.entities)))
	if !w.RefreshAll(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Refresh worker detenido.")
			return
		case <-ticker.C:
			w.log.Debug("🔄 Refrescando instantáneas")
			if !w.RefreshAll(ctx) {
				return
			}
		}
	}
}

// RefreshAll descarga cada entidad. Un fallo no detiene al resto y conserva la instantánea
// anterior. Devuelve false si la sesión caducó: no tiene sentido seguir sin credenciales.
func (w *Worker) RefreshAll(ctx context.Context) bool {
	for _, entity := range w.entities {
		if ctx.Err() != nil {
			return true
		}
		n, err := w.downloader.Download(ctx, entity, sharedDomain.FilterSpec{})
		switch {
		case errors.Is(err, sharedDomain.ErrSessionExpired):
			w.log.Warn("⚠️ Sesión caducada, se detiene el refresco", zap.String("entity", entity.Name))
			return false
		case err != nil:
			w.log.Warn("⚠️ No se pudo refrescar la instantánea",
				zap.String("entity", entity.Name),
				zap.Error(err),
			)
		default:
			w.log.Info("✅ Instantánea refrescada", zap.String("entity", entity.Name), zap.Int("records", n))
		}
	}
	return true
}
