package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	cmdUtil "github.com/ValentinKolb/dProps/cmd/util"
	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/rpc/common"
	"github.com/ValentinKolb/dProps/rpc/server"
	"github.com/ValentinKolb/dProps/rpc/transport/http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dProps server",
		Long:    `Start the dProps server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DPROPS_<flag> (e.g. DPROPS_SWEEP_INTERVAL=1m)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	key := "shards"
	ServeCmd.PersistentFlags().String(key, "1=mstore,2=mstore", cmdUtil.WrapString("Comma-separated list of shards to serve. Format: ID=TYPE where TYPE is one of: mstore, rstore, dstore"))

	key = "store-propagation-delay"
	ServeCmd.PersistentFlags().Duration(key, 0, cmdUtil.WrapString("(mstore) Delay before a write becomes visible to readers. Simulates an eventually consistent backend"))

	key = "redis-addr"
	ServeCmd.PersistentFlags().String(key, "localhost:6379", cmdUtil.WrapString("(rstore) Address of the Redis server"))

	key = "redis-password"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(rstore) Password of the Redis server"))

	key = "redis-db"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("(rstore) Redis database number"))

	key = "redis-namespace"
	ServeCmd.PersistentFlags().String(key, "dprops", cmdUtil.WrapString("(rstore) Prefix of the Redis hashes. Shard N is stored in the hash <namespace>:N"))

	key = "rtt-millisecond"
	ServeCmd.PersistentFlags().Int(key, 100, cmdUtil.WrapString("(dstore) RTTMillisecond defines the average Round Trip Time (RTT) in milliseconds between two NodeHost instances. Election and heartbeat timeouts are derived from this value"))

	key = "snapshot-entries"
	ServeCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("(dstore) SnapshotEntries defines how often the state machine should be snapshotted automatically, in applied Raft log entries. 0 disables automatic snapshotting (not recommended)"))

	key = "compaction-overhead"
	ServeCmd.PersistentFlags().Int(key, 5, cmdUtil.WrapString("(dstore) CompactionOverhead defines the number of log entries to keep after a snapshot. Recommended value is about 1/2 of SnapshotEntries"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("(dstore) DataDir is the directory used for the raft log and snapshots"))

	key = "replica-id"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(dstore) ReplicaID is the unique name of this node (e.g. 'node-1')"))

	key = "cluster-members"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(dstore) ClusterMembers is a comma-separated list of node addresses in the format 'node-1=localhost:63001,node-2=localhost:63002,...'"))

	key = "lease-propagation-delay"
	ServeCmd.PersistentFlags().Duration(key, lease.DefaultPropagationDelay, cmdUtil.WrapString("Pause between writing a lease record and reading it back to verify ownership. Negative values disable the pause"))

	key = "sweep-interval"
	ServeCmd.PersistentFlags().Duration(key, 0, cmdUtil.WrapString("How often every shard deletes its expired lease records (0 disables the background sweep)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds of a single store operation"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen"))
}

// parseShards parses a shard list like "1=mstore,2=dstore"
func parseShards(s string) ([]common.ServerShard, error) {
	var shards []common.ServerShard
	seen := make(map[uint64]bool)
	for _, shardConfig := range strings.Split(s, ",") {
		parts := strings.Split(shardConfig, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shard format: %s (expected ID=TYPE)", shardConfig)
		}

		shardID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shard ID %s: %v", parts[0], err)
		}
		if seen[shardID] {
			return nil, fmt.Errorf("duplicate shard ID %d", shardID)
		}
		seen[shardID] = true

		shardType, err := common.ParseShardType(parts[1])
		if err != nil {
			return nil, err
		}

		shards = append(shards, common.ServerShard{ShardID: shardID, Type: shardType})
	}
	return shards, nil
}

// parseClusterMembers parses "node-1=host:port,..." into a map keyed by hashed replica id
func parseClusterMembers(s string) (map[uint64]string, error) {
	members := make(map[uint64]string)
	for _, member := range strings.Split(s, ",") {
		parts := strings.Split(member, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cluster member format: %s (expected ID=address)", member)
		}
		members[cmdUtil.HashString(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return members, nil
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	shards, err := parseShards(viper.GetString("shards"))
	if err != nil {
		return err
	}
	serveCmdConfig.Shards = shards

	serveCmdConfig.StorePropagationDelay = viper.GetDuration("store-propagation-delay")
	serveCmdConfig.RedisAddr = viper.GetString("redis-addr")
	serveCmdConfig.RedisPassword = viper.GetString("redis-password")
	serveCmdConfig.RedisDB = viper.GetInt("redis-db")
	serveCmdConfig.RedisNamespace = viper.GetString("redis-namespace")
	serveCmdConfig.RTTMillisecond = viper.GetUint64("rtt-millisecond")
	serveCmdConfig.SnapshotEntries = viper.GetUint64("snapshot-entries")
	serveCmdConfig.CompactionOverhead = viper.GetUint64("compaction-overhead")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.LeasePropagationDelay = viper.GetDuration("lease-propagation-delay")
	serveCmdConfig.SweepInterval = viper.GetDuration("sweep-interval")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	// the remaining settings are only needed for dstore shards
	if !serveCmdConfig.HasShardType(common.ShardTypeDistributed) {
		return nil
	}

	id := viper.GetString("replica-id")
	if id == "" {
		return fmt.Errorf("replica-id is required for dstore shards")
	}
	serveCmdConfig.ReplicaID = cmdUtil.HashString(id)

	clusterMembers := viper.GetString("cluster-members")
	if clusterMembers == "" {
		return fmt.Errorf("cluster-members is required for dstore shards")
	}
	if serveCmdConfig.ClusterMembers, err = parseClusterMembers(clusterMembers); err != nil {
		return err
	}

	if _, ok := serveCmdConfig.ClusterMembers[serveCmdConfig.ReplicaID]; !ok {
		return fmt.Errorf("no address found for replica %s in cluster members", id)
	}

	return nil
}

// run starts the dProps server and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serv := server.NewRPCServer(
		*serveCmdConfig,
		http.NewHttpServerTransport(),
		s,
	)

	return serv.Serve(ctx)
}
