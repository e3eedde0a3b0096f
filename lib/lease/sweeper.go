package lease

import (
	"context"
	"strings"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
)

// Sweeper removes lease records that are expired or corrupt. Acquirers already treat
// such records as absent; the sweeper only keeps them from piling up in the store.
type Sweeper struct {
	store props.IPropertyStore
	opts  Options
}

// NewSweeper creates a sweeper for the lease records in store.
// opts must use the same KeyPrefix as the lease managers writing to the store.
func NewSweeper(store props.IPropertyStore, opts *Options) *Sweeper {
	return &Sweeper{
		store: store,
		opts:  opts.withDefaults(),
	}
}

// SweepExpiredLeases deletes every dead lease record and returns how many were deleted.
// A failed delete is logged and skipped. Valid leases are never touched, so the sweep is
// safe to run next to normal traffic.
func (s *Sweeper) SweepExpiredLeases() int {
	entries, err := s.store.GetAll()
	if err != nil {
		log.Warningf("sweep: listing properties failed: %v", err)
		return 0
	}
	sweepsTotal.Inc()

	now := s.opts.Clock.Now()
	deleted := 0
	for key, raw := range entries {
		if !strings.HasPrefix(key, s.opts.KeyPrefix) {
			continue
		}
		if rec, err := ParseRecord(raw); err == nil && rec.Valid(now) {
			continue
		}
		// the listing may be stale, skip records that were re-acquired since
		if s.reacquired(key, now) {
			continue
		}
		if err := s.store.Delete(key); err != nil {
			log.Warningf("sweep: deleting %s failed: %v", key, err)
			continue
		}
		deleted++
	}

	sweptTotal.Add(deleted)
	if deleted > 0 {
		log.Infof("sweep: removed %d dead lease records", deleted)
	}
	return deleted
}

// Run sweeps once per interval until ctx is cancelled. A non-positive interval disables
// periodic sweeping and Run returns immediately.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Warningf("sweeper: interval %s is not positive, not sweeping", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpiredLeases()
		}
	}
}

// reacquired reports whether the record at key is valid again when read directly.
func (s *Sweeper) reacquired(key string, now time.Time) bool {
	raw, found, err := s.store.Get(key)
	if err != nil || !found {
		return false
	}
	rec, err := ParseRecord(raw)
	return err == nil && rec.Valid(now)
}
