package lease

import (
	"strings"
	"time"
)

const (
	// DefaultKeyPrefix is prepended to a key to form the key of its lease record.
	DefaultKeyPrefix = "LOCK_"
	// DefaultPropagationDelay is the pause between writing a lease record and reading it back.
	DefaultPropagationDelay = 10 * time.Millisecond
	// DefaultLeaseTTL is the lease duration for single key operations.
	DefaultLeaseTTL = 5 * time.Second
	// BatchLeaseFactor multiplies DefaultLeaseTTL for operations on the whole store.
	BatchLeaseFactor = 2
)

// ILeaseManager hands out time bounded exclusive ownership of keys of one property store.
type ILeaseManager interface {
	// Acquire tries to become the owner of key for ttl. On success it returns the owner ID
	// of the new lease and true. Contention and store failures both return false; neither
	// is reported as an error.
	Acquire(key string, ttl time.Duration) (ownerID string, ok bool)

	// Release gives up the lease on key. It is best-effort and idempotent: a missing lease
	// is not an error and store failures are only logged. A lease that is still valid but
	// belongs to a different owner is left untouched. An empty ownerID releases the lease
	// whoever holds it.
	Release(key string, ownerID string)
}

// Options configures a lease manager or sweeper.
// The zero value of a field selects its default.
type Options struct {
	// KeyPrefix is prepended to a key to build its lease record key ("LOCK_").
	KeyPrefix string
	// PropagationDelay is the pause between the write and the verifying read of an acquisition.
	// A negative value disables the pause.
	PropagationDelay time.Duration
	// Clock provides the current time and the pause. Defaults to the system clock.
	Clock Clock
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		KeyPrefix:        DefaultKeyPrefix,
		PropagationDelay: DefaultPropagationDelay,
		Clock:            SystemClock(),
	}
}

// withDefaults returns a copy of o with every unset field replaced by its default.
// A nil receiver yields DefaultOptions.
func (o *Options) withDefaults() Options {
	res := *DefaultOptions()
	if o == nil {
		return res
	}
	if o.KeyPrefix != "" {
		res.KeyPrefix = o.KeyPrefix
	}
	if o.PropagationDelay != 0 {
		res.PropagationDelay = o.PropagationDelay
	}
	if o.PropagationDelay < 0 {
		res.PropagationDelay = 0
	}
	if o.Clock != nil {
		res.Clock = o.Clock
	}
	return res
}

// LockKey returns the key of the lease record guarding key.
func (o *Options) LockKey(key string) string {
	return o.withDefaults().KeyPrefix + key
}

// IsLockKey reports whether key names a lease record.
func (o *Options) IsLockKey(key string) bool {
	return strings.HasPrefix(key, o.withDefaults().KeyPrefix)
}
