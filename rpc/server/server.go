package server

import (
	"context"
	"fmt"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/dstore"
	"github.com/ValentinKolb/dProps/lib/props/mstore"
	"github.com/ValentinKolb/dProps/lib/props/rstore"
	"github.com/ValentinKolb/dProps/rpc/common"
	"github.com/ValentinKolb/dProps/rpc/serializer"
	"github.com/ValentinKolb/dProps/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/redis/go-redis/v9"
)

var log = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	log.Infof("Created RPC Server")
	log.Infof("%s", config.String())

	return &RPCServer{
		config:       config,
		transport:    transport,
		serializer:   serializer,
		shards:       xsync.NewMapOf[uint64, *ServerShard](),
		propsAdapter: NewPropsServerAdapter(),
		leaseAdapter: NewLeaseServerAdapter(),
	}
}

// RPCServer serves the property stores and lease managers of its shards.
type RPCServer struct {
	config       common.ServerConfig
	transport    transport.IRPCServerTransport
	serializer   serializer.IRPCSerializer
	shards       *xsync.MapOf[uint64, *ServerShard]
	propsAdapter IRPCServerAdapter
	leaseAdapter IRPCServerAdapter

	nodeHost    *dragonboat.NodeHost
	redisClient *redis.Client
}

// handle decodes a request, lets the matching adapter handle it and encodes the response
func (s *RPCServer) handle(shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg *common.Message

	if shard, ok := s.shards.Load(shardId); !ok {
		respMsg = common.NewErrorResponse(fmt.Sprintf("shard %d not found", shardId))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else if msg.MsgType.IsLeaseOp() {
		respMsg = s.leaseAdapter.Handle(&msg, shard)
	} else {
		respMsg = s.propsAdapter.Handle(&msg, shard)
	}

	if respMsg.MsgType == common.MsgTError {
		metrics.GetOrCreateCounter(`dprops_rpc_errors_total`).Inc()
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`dprops_rpc_requests_total{op=%q}`, msg.MsgType)).Inc()

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		log.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// newStore creates the property store backing a shard
func (s *RPCServer) newStore(shardConfig common.ServerShard) (props.IPropertyStore, error) {
	switch shardConfig.Type {
	case common.ShardTypeMemory:
		return mstore.NewMemoryStore(&mstore.Options{PropagationDelay: s.config.StorePropagationDelay}), nil

	case common.ShardTypeRedis:
		if s.redisClient == nil {
			client, err := rstore.NewRedisClient(rstore.Config{
				Addr:     s.config.RedisAddr,
				Password: s.config.RedisPassword,
				DB:       s.config.RedisDB,
			})
			if err != nil {
				return nil, err
			}
			s.redisClient = client
		}
		namespace := fmt.Sprintf("%s:%d", s.config.RedisNamespace, shardConfig.ShardID)
		return rstore.NewRedisStore(s.redisClient, namespace, s.config.Timeout()), nil

	case common.ShardTypeDistributed:
		if s.nodeHost == nil {
			nodeHost, err := dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
			if err != nil {
				return nil, fmt.Errorf("failed to create node host: %w", err)
			}
			s.nodeHost = nodeHost
		}
		if err := s.nodeHost.StartConcurrentReplica(
			s.config.ClusterMembers, false,
			dstore.CreateStateMachineFactory(),
			s.config.ToDragonboatConfig(shardConfig.ShardID),
		); err != nil {
			return nil, fmt.Errorf("failed to start shard %d: %w", shardConfig.ShardID, err)
		}
		return dstore.NewDistributedStore(s.nodeHost, shardConfig.ShardID, s.config.Timeout()), nil

	default:
		return nil, fmt.Errorf("invalid shard type: %s", shardConfig.Type)
	}
}

func (s *RPCServer) init() error {
	leaseOpts := lease.DefaultOptions()
	leaseOpts.PropagationDelay = s.config.LeasePropagationDelay

	/*
		Note: A single RPC Server can serve any number of shards, each backed by its own
		store. Every shard gets a lease manager and a sweeper working on that store, so
		lease records live next to the properties they protect.
	*/
	for _, shardConfig := range s.config.Shards {
		store, err := s.newStore(shardConfig)
		if err != nil {
			return err
		}
		s.shards.Store(shardConfig.ShardID, &ServerShard{
			Store:   store,
			Leases:  lease.NewLeaseManager(store, leaseOpts),
			Sweeper: lease.NewSweeper(store, leaseOpts),
		})
		log.Infof("created %s shard %d", shardConfig.Type, shardConfig.ShardID)
	}

	log.Infof("dProps setup completed successfully")

	s.transport.RegisterHandler(s.handle)
	return nil
}

// close releases the connections held by the stores
func (s *RPCServer) close() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Warningf("failed to close redis client: %v", err)
		}
	}
	if s.nodeHost != nil {
		s.nodeHost.Close()
	}
}

// Serve initializes the shards, starts the lease sweepers and runs the transport
// layer until ctx is cancelled.
func (s *RPCServer) Serve(ctx context.Context) error {
	defer s.close()
	if err := s.init(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if s.config.SweepInterval > 0 {
		s.shards.Range(func(shardId uint64, shard *ServerShard) bool {
			wg.Add(1)
			go func() {
				defer wg.Done()
				shard.Sweeper.Run(ctx, s.config.SweepInterval)
			}()
			return true
		})
	}

	return s.transport.Listen(ctx, s.config)
}
