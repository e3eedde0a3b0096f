// Package server implements the RPC server of the property service. Every shard
// holds the property store of one scope plus the lease manager and sweeper that
// work on it; requests are routed to the shard named in the transport call.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface for adapters translating request messages to
//     calls on a ServerShard.
//
//   - NewPropsServerAdapter: Serves get, set, delete, getAll and setAll against the
//     shard's props.IPropertyStore.
//
//   - NewLeaseServerAdapter: Serves acquire, release and sweep against the shard's
//     lease.ILeaseManager and lease.Sweeper. Leases are acquired server side, so
//     the propagation delay is waited out next to the store.
//
//   - NewRPCServer: Creates a server with the given transport and serializer.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 1, Type: common.ShardTypeMemory}, // installation properties
//	    {ShardID: 2, Type: common.ShardTypeMemory}, // principal properties
//	  },
//	  Endpoint:              "0.0.0.0:8080",
//	  TimeoutSecond:         5,
//	  LeasePropagationDelay: lease.DefaultPropagationDelay,
//	  SweepInterval:         time.Minute,
//	}
//
//	s := server.NewRPCServer(config, http.NewHttpServerTransport(), serializer.NewBinarySerializer())
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Shard types, which can be mixed within a single server:
//
//   - ShardTypeMemory (mstore): In-process store, optionally with a simulated
//     write propagation delay.
//
//   - ShardTypeRedis (rstore): One Redis hash per shard, named RedisNamespace:shardID.
//
//   - ShardTypeDistributed (dstore): Raft replicated store. The RAFT parameters
//     (RTTMillisecond, SnapshotEntries, CompactionOverhead, DataDir, ReplicaID and
//     ClusterMembers) must be configured.
//
// When SweepInterval is positive every shard runs its sweeper until Serve returns.
package server
