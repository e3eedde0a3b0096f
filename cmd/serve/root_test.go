package serve

import (
	"testing"

	cmdUtil "github.com/ValentinKolb/dProps/cmd/util"
	"github.com/ValentinKolb/dProps/rpc/common"
)

func TestParseShards(t *testing.T) {
	shards, err := parseShards("1=mstore, 2 = RSTORE,3=dstore")
	if err != nil {
		t.Fatalf("parseShards() error = %v", err)
	}
	want := []common.ServerShard{
		{ShardID: 1, Type: common.ShardTypeMemory},
		{ShardID: 2, Type: common.ShardTypeRedis},
		{ShardID: 3, Type: common.ShardTypeDistributed},
	}
	if len(shards) != len(want) {
		t.Fatalf("parseShards() = %v", shards)
	}
	for i := range want {
		if shards[i] != want[i] {
			t.Errorf("shard %d = %+v, want %+v", i, shards[i], want[i])
		}
	}

	for _, bad := range []string{"1", "x=mstore", "1=lstore", "1=mstore,1=rstore"} {
		if _, err := parseShards(bad); err == nil {
			t.Errorf("parseShards(%q) expected error", bad)
		}
	}
}

func TestParseClusterMembers(t *testing.T) {
	members, err := parseClusterMembers("node-1=localhost:63001,node-2=localhost:63002")
	if err != nil {
		t.Fatalf("parseClusterMembers() error = %v", err)
	}
	if members[cmdUtil.HashString("node-2")] != "localhost:63002" || len(members) != 2 {
		t.Errorf("parseClusterMembers() = %v", members)
	}
	if _, err := parseClusterMembers("node-1"); err == nil {
		t.Error("expected error for member without address")
	}
}
