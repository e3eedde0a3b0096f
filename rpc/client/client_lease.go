package client

import (
	"time"

	"github.com/ValentinKolb/dProps/rpc/common"
	"github.com/ValentinKolb/dProps/rpc/serializer"
	"github.com/ValentinKolb/dProps/rpc/transport"
)

// NewRPCLeaseManager creates a lease manager that acquires and releases leases on the
// given shard of an RPC server. The returned manager implements lease.ILeaseManager.
func NewRPCLeaseManager(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCLeaseManager, error) {
	adapter, err := newRPCClientAdapter(shardId, config, transport, serializer)
	if err != nil {
		return nil, err
	}
	return &RPCLeaseManager{adapter}, nil
}

// RPCLeaseManager is the client side of the lease operations of a shard.
type RPCLeaseManager struct {
	rpcClientAdapter
}

// Acquire acquires the lease for key on the server. A failed request counts as not acquired.
func (m *RPCLeaseManager) Acquire(key string, ttl time.Duration) (string, bool) {
	resp, err := m.invoke(common.NewAcquireRequest(key, ttl))
	if err != nil {
		log.Warningf("acquire %s: %v", key, err)
		return "", false
	}
	return resp.Owner, resp.Ok
}

// Release releases the lease for key held by ownerID. An empty ownerID releases unconditionally.
// Failures are logged, the record then expires on its own.
func (m *RPCLeaseManager) Release(key, ownerID string) {
	if _, err := m.invoke(common.NewReleaseRequest(key, ownerID)); err != nil {
		log.Warningf("release %s: %v", key, err)
	}
}

// SweepExpiredLeases asks the server to delete the dead lease records of the shard
// and returns how many were deleted.
func (m *RPCLeaseManager) SweepExpiredLeases() (int, error) {
	resp, err := m.invoke(common.NewSweepRequest())
	if err != nil {
		return 0, err
	}
	return int(resp.Count), nil
}
