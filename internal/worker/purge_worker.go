package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/service"
)

const purgeInterval = 24 * time.Hour

// PurgeWorker removes exam sessions past the retention window once a day.
// The examiner purge endpoint does the same thing on demand.
type PurgeWorker struct {
	sessionService *service.SessionService
	log            zerolog.Logger
}

// NewPurgeWorker creates a new PurgeWorker.
func NewPurgeWorker(sessionService *service.SessionService, log zerolog.Logger) *PurgeWorker {
	return &PurgeWorker{
		sessionService: sessionService,
		log:            log.With().Str("component", "purge_worker").Logger(),
	}
}

// Start runs one purge immediately, then once per interval until cancelled.
func (w *PurgeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("PurgeWorker started")

	w.run(ctx)

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("PurgeWorker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *PurgeWorker) run(ctx context.Context) {
	if _, err := w.sessionService.Purge(ctx); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Msg("session purge failed")
	}
}
