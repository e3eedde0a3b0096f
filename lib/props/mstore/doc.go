// Package mstore implements a local, in-memory property store based on the
// props.IPropertyStore interface. Data lives in a concurrent map and is not persisted
// between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Lock-free single key reads and writes backed by xsync.MapOf
//   - Atomic SetAll: a concurrent GetAll sees either the whole batch or none of it
//   - Optional propagation delay to mimic eventually consistent backends
//
// Propagation Delay:
//
//	Hosted property services do not promise that a write is visible to other readers
//	right away. Setting Options.PropagationDelay makes every write (Set, Delete, SetAll)
//	land only after that delay, while the call itself returns immediately. This is how
//	the tests reproduce the lost-race case the lease manager has to detect.
//
// Usage Example:
//
//	store := mstore.NewMemoryStore(nil)
//	_ = store.Set("settings", `{"tone":"friendly"}`)
//	value, found, _ := store.Get("settings")
//
// Suitable Use Cases:
//   - A single process where several goroutines act as independent executions
//   - Testing and development environments
//   - The backing store of a `dprops serve` shard of type mstore
package mstore
