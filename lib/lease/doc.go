// Package lease implements time bounded mutual exclusion on top of a props.IPropertyStore,
// a store that offers nothing but independent reads and writes. There is no
// compare-and-swap to build on, so ownership is claimed optimistically and then checked.
//
// Lease Records:
//
//	A lease on key K is the value stored under "LOCK_"+K in the same store as K:
//
//	  {"ownerId":"3f1c…","expiresAt":1712345678901}
//
//	ownerId is a fresh UUID per acquisition attempt and expiresAt an absolute unix
//	millisecond deadline. A record past its deadline is dead and counts as absent.
//	Records that do not parse, or lack an owner or deadline, are corrupt and count as
//	dead as well, so a damaged value can never block a key forever.
//
// Acquisition (write-then-verify):
//
//  1. Read the record of K.
//  2. If it is valid, give up.
//  3. Write a new record with a fresh owner ID and now+ttl.
//  4. Pause for Options.PropagationDelay (10ms by default), then read the record again.
//  5. The acquisition succeeded iff the owner read back is the one just written.
//
// When two executions race through steps 1 to 3, the later write wins and the earlier
// writer notices in step 5 that its claim was overwritten.
//
// Residual Risk:
//
//	The protocol shrinks the race window, it does not close it. Two cases remain:
//
//	  - If the store lets reads diverge between executions (each execution sees its own
//	    write for a while), both writers can read back their own record in step 5 and
//	    both believe they own K. The pause only gives the store time to converge; no
//	    value of it is a guarantee.
//	  - Even on a linearizable store, an execution that read an empty record in step 1
//	    but writes only after another execution finished step 5 overwrites a confirmed
//	    lease and is confirmed itself.
//
//	Both cases need an unusually slow execution between steps 1 and 3. Callers must keep
//	critical sections shorter than the lease duration and must not treat a lease as a
//	hard guarantee.
//
// Release:
//
//	Release deletes the record unless it has meanwhile been taken over by a different
//	owner that still holds a valid lease. It never fails: errors are logged, and a lease
//	whose release was lost simply expires.
//
// Sweeper:
//
//	Dead records are overwritten by the next acquirer, so correctness never depends on
//	cleaning them up. Sweeper.SweepExpiredLeases deletes dead and corrupt records to
//	keep abandoned lease keys from accumulating; Sweeper.Run does this periodically.
//
// Usage Example:
//
//	leases := lease.NewLeaseManager(store, nil)
//
//	owner, ok := leases.Acquire("settings", lease.DefaultLeaseTTL)
//	if ok {
//	    defer leases.Release("settings", owner)
//	    // read-modify-write "settings"
//	}
//
// Metrics:
//
//	Acquisitions by outcome, releases and sweeps are counted with VictoriaMetrics
//	(dprops_lease_*). They show up under /metrics of `dprops serve`.
package lease
