// Package props defines the property store abstraction the lease layer is built on.
// A property store is a flat, namespaced string-to-string map with five operations:
// Get, Set, Delete, GetAll and SetAll. Nothing else is promised. In particular there
// is no compare-and-swap, no transaction and no way to block until a key changes.
//
// Key Components:
//
//   - IPropertyStore Interface: The contract every backend implements. Apart from
//     SetAll, which must apply all entries together, calls are independent and may
//     interleave arbitrarily with calls from other executions.
//
//   - Scope: A two-variant enum selecting which store instance an operation targets.
//     ScopeInstallation is shared by every user of an installation, ScopePrincipal is
//     private to one user. The scopes are independent lock domains.
//
//   - Error System: Backends report failures as *Error values carrying a RetCode, so
//     callers can tell internal failures from invalid or unsupported operations.
//
// Implementations:
//
//   - Memory Store (mstore): An in-process map. Suitable for a single process and for
//     tests; it can simulate a propagation delay between a write and its visibility.
//     Available in the "github.com/ValentinKolb/dProps/lib/props/mstore" package.
//
//   - Redis Store (rstore): Keeps the properties of one scope in a single Redis hash.
//     Available in the "github.com/ValentinKolb/dProps/lib/props/rstore" package.
//
//   - Distributed Store (dstore): Replicates the properties with Raft consensus using
//     the Dragonboat library. Available in the "github.com/ValentinKolb/dProps/lib/props/dstore" package.
//
//   - RPC Store: A client for a store served by `dprops serve`.
//     Available in the "github.com/ValentinKolb/dProps/rpc/client" package.
//
// The lease manager (lib/lease) and the guarded accessor (lib/guard) only ever use this
// interface, so any of the backends can sit underneath them.
package props
