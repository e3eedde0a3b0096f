package lease

import (
	"errors"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("lease")

type leaseMgrImpl struct {
	store props.IPropertyStore
	opts  Options
}

// NewLeaseManager creates a lease manager that keeps its lease records in store.
// The manager has no state besides the store, so any number of managers (in any number
// of processes) may share one store. Passing nil options uses DefaultOptions.
func NewLeaseManager(store props.IPropertyStore, opts *Options) ILeaseManager {
	return &leaseMgrImpl{
		store: store,
		opts:  opts.withDefaults(),
	}
}

// load reads the lease record at lockKey. A corrupt value is returned as the zero Record
// with found set, so callers treat it like an expired lease.
func (lm *leaseMgrImpl) load(lockKey string) (rec Record, found bool, err error) {
	raw, found, err := lm.store.Get(lockKey)
	if err != nil || !found {
		return Record{}, false, err
	}
	rec, err = ParseRecord(raw)
	if errors.Is(err, ErrCorruptRecord) {
		log.Debugf("treating corrupt lease record %s as expired: %v", lockKey, err)
		return Record{}, true, nil
	}
	return rec, true, nil
}

func (lm *leaseMgrImpl) Acquire(key string, ttl time.Duration) (string, bool) {
	lockKey := lm.opts.KeyPrefix + key

	// 1. + 2. fail fast if someone holds a valid lease
	current, _, err := lm.load(lockKey)
	if err != nil {
		log.Warningf("acquire %s: reading lease failed: %v", key, err)
		acquireError.Inc()
		return "", false
	}
	now := lm.opts.Clock.Now()
	if current.Valid(now) {
		log.Debugf("acquire %s: held by %s until %s", key, current.OwnerID, current.Expiry().Format(time.RFC3339Nano))
		acquireContention.Inc()
		return "", false
	}

	// 3. claim the key with a fresh owner id
	claim := NewRecord(uuid.NewString(), now, ttl)
	if err := lm.store.Set(lockKey, claim.Encode()); err != nil {
		log.Warningf("acquire %s: writing lease failed: %v", key, err)
		acquireError.Inc()
		return "", false
	}

	// 4. give the write time to become visible, then read it back
	if lm.opts.PropagationDelay > 0 {
		lm.opts.Clock.Sleep(lm.opts.PropagationDelay)
	}
	confirmed, _, err := lm.load(lockKey)
	if err != nil {
		log.Warningf("acquire %s: verifying lease failed: %v", key, err)
		acquireError.Inc()
		return "", false
	}

	// 5. only the owner whose write survived may proceed
	if confirmed.OwnerID != claim.OwnerID {
		log.Debugf("acquire %s: lost race to %s", key, confirmed.OwnerID)
		acquireLostRace.Inc()
		return "", false
	}
	// the lease ran out while we waited for the verify read
	if !confirmed.Valid(lm.opts.Clock.Now()) {
		log.Debugf("acquire %s: lease expired before it was confirmed (ttl %s)", key, ttl)
		acquireExpired.Inc()
		return "", false
	}

	acquireSuccess.Inc()
	return claim.OwnerID, true
}

func (lm *leaseMgrImpl) Release(key string, ownerID string) {
	lockKey := lm.opts.KeyPrefix + key

	if ownerID != "" {
		current, found, err := lm.load(lockKey)
		if err != nil {
			log.Warningf("release %s: reading lease failed: %v", key, err)
			return
		}
		if !found {
			return
		}
		// our lease expired and someone else took over
		if current.OwnerID != ownerID && current.Valid(lm.opts.Clock.Now()) {
			log.Debugf("release %s: lease now belongs to %s, leaving it", key, current.OwnerID)
			return
		}
	}

	if err := lm.store.Delete(lockKey); err != nil {
		log.Warningf("release %s: deleting lease failed: %v", key, err)
		return
	}
	releasesTotal.Inc()
}
