// Package client implements the client side of the property service RPC system.
//
// Key Components:
//
//   - NewRPCStore: Returns a props.IPropertyStore whose operations are executed
//     on a shard of a remote server.
//
//   - NewRPCLeaseManager: Returns an RPCLeaseManager (a lease.ILeaseManager) that
//     acquires and releases leases on a shard of a remote server, plus a remote
//     trigger for the shard's lease sweeper.
//
// Both can be combined with the guard package to get lease protected access to
// a remote shard:
//
//	t := http.NewHttpClientTransport()
//	s := serializer.NewBinarySerializer()
//	store, _ := client.NewRPCStore(1, config, t, s)
//	leases, _ := client.NewRPCLeaseManager(1, config, t, s)
//	accessor := guard.NewAccessor(store, leases, nil)
//
// Lease operations never return errors: a request that cannot be delivered is
// logged and reported as a failed acquisition, matching local lease managers.
package client
