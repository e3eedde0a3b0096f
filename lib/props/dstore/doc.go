// Package dstore implements a replicated property store using the Dragonboat RAFT
// consensus library. It provides an implementation of props.IPropertyStore whose
// writes are ordered by the raft log and whose reads are linearizable.
//
// Architecture:
//
//   - Store Client: Implements props.IPropertyStore. It turns every call into a Command
//     or Query, hands it to the local NodeHost and converts the result back.
//
//   - State Machine: A Dragonboat IConcurrentStateMachine holding the properties of one
//     shard in memory. Commands are applied in log order on every replica.
//
//   - Communication Protocol: Command and Query structures with their binary encoding,
//     defined in the internal package.
//
// Writes:
//
//	Set, Delete and SetAll are proposed with SyncPropose. A SetAll is a single log entry,
//	so replicas apply all of its entries in one step and a concurrent GetAll sees the
//	batch either completely or not at all. ErrSystemBusy is retried a few times.
//
// Reads:
//
//	Get and GetAll use SyncRead. The lease manager verifies a lease by reading it back
//	after writing it; a stale read on a lagging replica could confirm a lease that has
//	already been overwritten, so stale reads are never used.
//
// Snapshots:
//
//	PrepareSnapshot copies the map into a SetAll command under the read lock and
//	SaveSnapshot writes its encoding. RecoverFromSnapshot decodes it and replaces the state.
//
// Example:
//
//	nh, err := dragonboat.NewNodeHost(nodeHostConfig)
//	if err != nil { ... }
//
//	err = nh.StartConcurrentReplica(members, false, dstore.CreateStateMachineFactory(), shardConfig)
//	if err != nil { ... }
//
//	store := dstore.NewDistributedStore(nh, shardID, 5*time.Second)
//
// Even with linearizable reads the store does not offer compare-and-swap. Mutual exclusion
// still comes from the lease layer on top, exactly as with the other backends.
package dstore
