package server

import (
	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/rpc/common"
)

// ServerShard is a shard of the RPC server. It holds the property store of one
// scope together with the lease manager and sweeper working on that store.
type ServerShard struct {
	Store   props.IPropertyStore
	Leases  lease.ILeaseManager
	Sweeper *lease.Sweeper
}

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request for the given shard and returns a response.
	// If an error occurs, it should be set in the response
	Handle(req *common.Message, shard *ServerShard) (resp *common.Message)
}
