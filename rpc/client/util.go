package client

import (
	"fmt"

	"github.com/ValentinKolb/dProps/rpc/common"
	"github.com/ValentinKolb/dProps/rpc/serializer"
	"github.com/ValentinKolb/dProps/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("rpc/client")

// rpcClientAdapter stores all data needed by an RPC client of one shard.
// Used by the RPC property store and lease manager with composition pattern
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// newRPCClientAdapter connects the transport and returns the adapter for shardId
func newRPCClientAdapter(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (rpcClientAdapter, error) {
	if err := transport.Connect(config); err != nil {
		return rpcClientAdapter{}, err
	}
	return rpcClientAdapter{
		shardId:    shardId,
		config:     config,
		transport:  transport,
		serializer: serializer,
	}, nil
}

// invoke sends req to the shard of the adapter. It returns an error if the request
// could not be delivered, if the server answered with an error or if the response
// has a different type than the request.
func (a *rpcClientAdapter) invoke(req *common.Message) (*common.Message, error) {
	reqBytes, err := a.serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	respBytes, err := a.transport.Send(a.shardId, reqBytes)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: %w", req.MsgType, err)
	}

	resp := &common.Message{}
	if err := a.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("rpc %s: invalid response: %w", req.MsgType, err)
	}

	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, fmt.Errorf("rpc %s: %s", req.MsgType, resp.Err)
	}

	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("rpc %s: unexpected response type %s", req.MsgType, resp.MsgType)
	}

	return resp, nil
}
