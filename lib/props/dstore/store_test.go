package dstore

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	propstesting "github.com/ValentinKolb/dProps/lib/props/testing"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/config"
)

const replicaID = 1

// newTestNodeHost starts a single node NodeHost in a temporary directory
func newTestNodeHost(t testing.TB) (*dragonboat.NodeHost, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	dir := t.TempDir()
	nh, err := dragonboat.NewNodeHost(config.NodeHostConfig{
		WALDir:         dir,
		NodeHostDir:    dir,
		RTTMillisecond: 10,
		RaftAddress:    addr,
	})
	if err != nil {
		t.Fatalf("NewNodeHost() error = %v", err)
	}
	t.Cleanup(nh.Close)
	return nh, addr
}

// factory starts a new shard on nh for every store and waits for its leader
func factory(t testing.TB, nh *dragonboat.NodeHost, addr string) propstesting.StoreFactory {
	var nextShard atomic.Uint64
	return func() props.IPropertyStore {
		shardID := nextShard.Add(1)
		err := nh.StartConcurrentReplica(
			map[uint64]string{replicaID: addr}, false,
			CreateStateMachineFactory(),
			config.Config{
				ReplicaID:    replicaID,
				ShardID:      shardID,
				ElectionRTT:  10,
				HeartbeatRTT: 1,
				CheckQuorum:  true,
			},
		)
		if err != nil {
			t.Fatalf("StartConcurrentReplica(%d) error = %v", shardID, err)
		}

		deadline := time.Now().Add(10 * time.Second)
		for {
			if _, _, ok, err := nh.GetLeaderID(shardID); err == nil && ok {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("shard %d has no leader", shardID)
			}
			time.Sleep(10 * time.Millisecond)
		}
		return NewDistributedStore(nh, shardID, 5*time.Second)
	}
}

func Test(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a raft node")
	}
	nh, addr := newTestNodeHost(t)
	propstesting.RunPropertyStoreTests(t, "DistributedStore", factory(t, nh, addr))
}

func Benchmark(b *testing.B) {
	nh, addr := newTestNodeHost(b)
	propstesting.RunPropertyStoreBenchmarks(b, "DistributedStore", factory(b, nh, addr))
}
