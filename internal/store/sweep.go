// internal/store/sweep.go
//
// Idle session eviction.
// Sessions are never closed explicitly by clients, so the server sweeps
// the ones nobody has touched for a configured TTL.

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweep deletes every session last seen before cutoff and reports how many
// were removed.
func Sweep(ctx context.Context, st Store, cutoff time.Time) (int, error) {
	n := 0
	for _, id := range st.IdleSince(cutoff) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := st.Delete(ctx, id); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SweepInterval is how often RunSweeper checks for sessions idle past ttl.
func SweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), time.Hour)
}

// RunSweeper evicts sessions idle longer than ttl until ctx is done.
func RunSweeper(ctx context.Context, st Store, ttl time.Duration) {
	interval := SweepInterval(ttl)
	log.Info().Dur("ttl", ttl).Dur("interval", interval).Msg("session sweeper starting")
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper stopped")
			return
		case now := <-t.C:
			n, err := Sweep(ctx, st, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Int("evicted", n).Msg("session sweep interrupted")
				continue
			}
			if n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("idle sessions evicted")
			}
		}
	}
}
