package sched

import (
	"context"
	"time"

	"yt-podcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Pruner deletes download cache entries older than a cutoff.
type Pruner interface {
	PruneOlderThan(cutoff time.Time) (int, error)
}

// CacheJanitor periodically drops finished downloads from the cache dir.
type CacheJanitor struct {
	interval  time.Duration
	retention time.Duration
	pruner    Pruner
	now       func() time.Time
	log       *zerolog.Logger
}

func NewCacheJanitor(interval, retention time.Duration, pruner Pruner, logger *zerolog.Logger) *CacheJanitor {
	janitorLog := logger.With().Str("component", "CacheJanitor").Logger()
	return &CacheJanitor{
		interval:  interval,
		retention: retention,
		pruner:    pruner,
		now:       time.Now,
		log:       &janitorLog,
	}
}

func (w *CacheJanitor) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("Starting cache janitor")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping cache janitor")
			return ctx.Err()
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CacheJanitor) sweep() int {
	n, err := w.pruner.PruneOlderThan(w.now().Add(-w.retention))
	if err != nil {
		metrics.IncCacheSweepError()
		w.log.Error().Err(err).Msg("cache sweep error")
	}
	if n > 0 {
		metrics.AddCachePruned(n)
		w.log.Info().Int("count", n).Msg("stale downloads removed")
	}
	return n
}
