// Package guard provides the lease guarded property API.
//
// An Accessor wraps one property store. Every operation first acquires a lease from the
// lease manager, runs the store call while holding it and releases it in a deferred call:
//
//	Get, Set, Delete  lease on the key itself, duration LeaseTTL
//	GetAll            lease on "ALL_PROPS",   duration LeaseTTL*BatchLeaseFactor
//	SetAll            lease on "BATCH_PROPS", duration LeaseTTL*BatchLeaseFactor
//
// A failed acquisition is retried up to MaxRetries times with linear backoff: after
// failed attempt n the accessor sleeps n*RetryDelay. A store error while the lease is held
// counts as a failed attempt.
//
// When the retries are used up reads and writes part ways. Get and GetAll read the store
// without a lease and log a warning, since slightly stale configuration is better than
// none. Set, Delete and SetAll return false and never write without a lease.
//
// SetAll hands the whole batch to the store's native SetAll, which applies it atomically.
// Lease records are kept out of GetAll results, and writes to lease keys are refused.
//
// Service binds an Accessor to each props.Scope and adds CleanupExpiredLocks, which runs
// the lease sweeper on both stores, and SaveProperties, which turns a failed batch into
// ErrSaveFailed so the failure reaches the user.
package guard
