package server

import (
	"fmt"

	"github.com/ValentinKolb/dProps/rpc/common"
)

// NewLeaseServerAdapter returns the adapter serving the lease operations of a shard.
// Leases are acquired on the server, so the propagation delay is waited out next to the store.
func NewLeaseServerAdapter() IRPCServerAdapter {
	return &leaseServerAdapterImpl{}
}

type leaseServerAdapterImpl struct{}

func (adapter *leaseServerAdapterImpl) Handle(req *common.Message, shard *ServerShard) *common.Message {
	if shard == nil || shard.Leases == nil {
		return common.NewErrorResponse("handler: lease manager is nil")
	}

	switch req.MsgType {
	case common.MsgTLeaseAcquire:
		if req.Key == "" {
			return common.NewErrorResponse("acquire: key must not be empty")
		}
		if req.TTLMillis == 0 {
			return common.NewErrorResponse("acquire: ttl must be positive")
		}
		owner, ok := shard.Leases.Acquire(req.Key, req.TTL())
		return common.NewAcquireResponse(owner, ok)
	case common.MsgTLeaseRelease:
		if req.Key == "" {
			return common.NewErrorResponse("release: key must not be empty")
		}
		shard.Leases.Release(req.Key, req.Owner)
		return common.NewReleaseResponse()
	case common.MsgTLeaseSweep:
		if shard.Sweeper == nil {
			return common.NewErrorResponse("sweep: shard has no sweeper")
		}
		return common.NewSweepResponse(shard.Sweeper.SweepExpiredLeases())
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC LeaseAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
