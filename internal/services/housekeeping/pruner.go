package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Store deletes query log rows created before cutoff.
type Store interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner periodically removes query log rows older than the retention.
type Pruner struct {
	store     Store
	retention time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	now       func() time.Time
}

func NewPruner(store Store, retention time.Duration) *Pruner {
	return &Pruner{
		store:     store,
		retention: retention,
		done:      make(chan struct{}),
		now:       time.Now,
	}
}

// Start runs one prune immediately and then one per interval until ctx is
// done or Stop is called. A non-positive interval leaves the pruner idle.
func (p *Pruner) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Error().Dur("interval", interval).Msg("Query log pruner not started: interval must be positive")
		return
	}
	p.ticker = time.NewTicker(interval)

	go func() {
		if _, err := p.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to prune query log")
		}
		for {
			select {
			case <-p.ticker.C:
				if _, err := p.RunOnce(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to prune query log")
				}
			case <-p.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info().Dur("interval", interval).Dur("retention", p.retention).Msg("Query log pruner started")
}

// Stop stops the background loop. It must be called at most once.
func (p *Pruner) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	close(p.done)
	log.Info().Msg("Query log pruner stopped")
}

// RunOnce deletes rows older than the retention and returns how many went.
func (p *Pruner) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	cutoff := p.now().Add(-p.retention)

	n, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	log.Info().
		Int64("deleted", n).
		Time("cutoff", cutoff).
		Dur("duration", time.Since(start)).
		Msg("Pruned query log")
	return n, nil
}
