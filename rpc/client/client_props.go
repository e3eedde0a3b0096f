package client

import (
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/rpc/common"
	"github.com/ValentinKolb/dProps/rpc/serializer"
	"github.com/ValentinKolb/dProps/rpc/transport"
)

// NewRPCStore creates a property store backed by the given shard of an RPC server
func NewRPCStore(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (props.IPropertyStore, error) {
	adapter, err := newRPCClientAdapter(shardId, config, transport, serializer)
	if err != nil {
		return nil, err
	}
	return &rpcStore{adapter}, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see props/interface.go)
// --------------------------------------------------------------------------

func (s *rpcStore) Get(key string) (string, bool, error) {
	resp, err := s.invoke(common.NewGetRequest(key))
	if err != nil {
		return "", false, err
	}
	return resp.Value, resp.Ok, nil
}

func (s *rpcStore) Set(key, value string) error {
	_, err := s.invoke(common.NewSetRequest(key, value))
	return err
}

func (s *rpcStore) Delete(key string) error {
	_, err := s.invoke(common.NewDeleteRequest(key))
	return err
}

func (s *rpcStore) GetAll() (map[string]string, error) {
	resp, err := s.invoke(common.NewGetAllRequest())
	if err != nil {
		return nil, err
	}
	// some serializers drop empty maps
	if resp.Entries == nil {
		return map[string]string{}, nil
	}
	return resp.Entries, nil
}

func (s *rpcStore) SetAll(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := s.invoke(common.NewSetAllRequest(entries))
	return err
}
