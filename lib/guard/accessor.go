package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("guard")

// Accessor wraps every operation on one property store with a lease.
// It is safe for concurrent use as long as the store and lease manager are.
type Accessor struct {
	store  props.IPropertyStore
	leases lease.ILeaseManager
	cfg    Config
}

// NewAccessor creates an accessor for store. leases must keep its records in the same
// store. Passing a nil config uses DefaultConfig.
func NewAccessor(store props.IPropertyStore, leases lease.ILeaseManager, cfg *Config) *Accessor {
	return &Accessor{
		store:  store,
		leases: leases,
		cfg:    cfg.withDefaults(),
	}
}

// --------------------------------------------------------------------------
// Lease handling
// --------------------------------------------------------------------------

// withLease runs fn while holding the lease on leaseKey. It makes up to MaxRetries
// attempts and waits attempt*RetryDelay after each failed one except the last.
// It reports whether fn ran to completion without error.
func (a *Accessor) withLease(op, leaseKey string, ttl time.Duration, fn func() error) bool {
	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		if a.attempt(op, leaseKey, ttl, fn) {
			return true
		}
		failedAttempts.Inc()
		if attempt < a.cfg.MaxRetries {
			a.cfg.Clock.Sleep(a.cfg.RetryDelay * time.Duration(attempt))
		}
	}
	return false
}

func (a *Accessor) attempt(op, leaseKey string, ttl time.Duration, fn func() error) bool {
	owner, ok := a.leases.Acquire(leaseKey, ttl)
	if !ok {
		return false
	}
	defer a.leases.Release(leaseKey, owner)

	if err := fn(); err != nil {
		log.Warningf("%s %s: store call failed while holding the lease: %v", op, leaseKey, err)
		return false
	}
	return true
}

// checkKey panics on an empty key.
func checkKey(op, key string) {
	if key == "" {
		panic(fmt.Sprintf("guard: %s called with an empty key", op))
	}
}

func (a *Accessor) isLeaseKey(key string) bool {
	return strings.HasPrefix(key, a.cfg.LeaseKeyPrefix)
}

func writeFailed(counter *metrics.Counter, op, key, reason string) bool {
	counter.Inc()
	log.Errorf("%s %s: %s", op, key, reason)
	return false
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

// Get returns the value of key. If no lease can be acquired it falls back to an
// unsynchronized read, and if that read fails too it reports the key as missing.
// Lease records are never returned.
func (a *Accessor) Get(key string) (string, bool) {
	checkKey("get", key)
	if a.isLeaseKey(key) {
		log.Errorf("get %s: lease records are not properties", key)
		return "", false
	}

	var value string
	var found bool
	if a.withLease("get", key, a.cfg.LeaseTTL, func() error {
		var err error
		value, found, err = a.store.Get(key)
		return err
	}) {
		return value, found
	}

	fallbackGet.Inc()
	log.Warningf("get %s: no lease after %d attempts, reading unsynchronized", key, a.cfg.MaxRetries)
	value, found, err := a.store.Get(key)
	if err != nil {
		log.Errorf("get %s: unsynchronized read failed: %v", key, err)
		return "", false
	}
	return value, found
}

// GetAll returns a copy of all properties without lease records. It never returns nil.
// Like Get it degrades to an unsynchronized read and finally to an empty map.
func (a *Accessor) GetAll() map[string]string {
	var entries map[string]string
	if a.withLease("getAll", a.cfg.AllPropsKey, a.cfg.batchTTL(), func() error {
		var err error
		entries, err = a.store.GetAll()
		return err
	}) {
		return a.withoutLeases(entries)
	}

	fallbackGetAll.Inc()
	log.Warningf("getAll: no lease after %d attempts, reading unsynchronized", a.cfg.MaxRetries)
	entries, err := a.store.GetAll()
	if err != nil {
		log.Errorf("getAll: unsynchronized read failed: %v", err)
		return map[string]string{}
	}
	return a.withoutLeases(entries)
}

func (a *Accessor) withoutLeases(entries map[string]string) map[string]string {
	res := make(map[string]string, len(entries))
	for k, v := range entries {
		if !a.isLeaseKey(k) {
			res[k] = v
		}
	}
	return res
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

// Set stores value under key and reports whether the write happened.
// It never writes without holding the lease on key.
func (a *Accessor) Set(key, value string) bool {
	checkKey("set", key)
	if a.isLeaseKey(key) {
		return writeFailed(writeFailedSet, "set", key, "refusing to write a lease record")
	}

	if !a.withLease("set", key, a.cfg.LeaseTTL, func() error {
		return a.store.Set(key, value)
	}) {
		return writeFailed(writeFailedSet, "set", key, "no lease, write dropped")
	}
	return true
}

// Delete removes key and reports whether the delete happened.
func (a *Accessor) Delete(key string) bool {
	checkKey("delete", key)
	if a.isLeaseKey(key) {
		return writeFailed(writeFailedDelete, "delete", key, "refusing to delete a lease record")
	}

	if !a.withLease("delete", key, a.cfg.LeaseTTL, func() error {
		return a.store.Delete(key)
	}) {
		return writeFailed(writeFailedDelete, "delete", key, "no lease, delete dropped")
	}
	return true
}

// SetAll writes all updates with one native batch call while holding the batch lease,
// so readers see either all of them or none. An empty batch succeeds without a lease.
func (a *Accessor) SetAll(updates map[string]string) bool {
	if len(updates) == 0 {
		return true
	}

	batch := make(map[string]string, len(updates))
	for k, v := range updates {
		checkKey("setAll", k)
		if a.isLeaseKey(k) {
			return writeFailed(writeFailedSetAll, "setAll", k, "refusing to write a lease record")
		}
		batch[k] = v
	}

	if !a.withLease("setAll", a.cfg.BatchPropsKey, a.cfg.batchTTL(), func() error {
		return a.store.SetAll(batch)
	}) {
		return writeFailed(writeFailedSetAll, "setAll", a.cfg.BatchPropsKey, "no lease, batch dropped")
	}
	return true
}
