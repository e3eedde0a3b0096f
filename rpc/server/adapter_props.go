package server

import (
	"fmt"

	"github.com/ValentinKolb/dProps/rpc/common"
)

// NewPropsServerAdapter returns the adapter serving the property store operations of a shard.
func NewPropsServerAdapter() IRPCServerAdapter {
	return &propsServerAdapterImpl{}
}

type propsServerAdapterImpl struct{}

func (adapter *propsServerAdapterImpl) Handle(req *common.Message, shard *ServerShard) *common.Message {
	if shard == nil || shard.Store == nil {
		return common.NewErrorResponse("handler: store is nil")
	}
	store := shard.Store

	switch req.MsgType {
	case common.MsgTPropGet:
		val, ok, err := store.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTPropSet:
		return common.NewSetResponse(store.Set(req.Key, req.Value))
	case common.MsgTPropDelete:
		return common.NewDeleteResponse(store.Delete(req.Key))
	case common.MsgTPropGetAll:
		entries, err := store.GetAll()
		return common.NewGetAllResponse(entries, err)
	case common.MsgTPropSetAll:
		return common.NewSetAllResponse(store.SetAll(req.Entries))
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC PropsAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
