package rstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	propstesting "github.com/ValentinKolb/dProps/lib/props/testing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestClient connects to the redis instance named by DPROPS_TEST_REDIS_ADDR
// and skips the test if the variable is not set.
func newTestClient(t testing.TB) *redis.Client {
	addr := os.Getenv("DPROPS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DPROPS_TEST_REDIS_ADDR not set")
	}
	client, err := NewRedisClient(Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func factory(t testing.TB, client *redis.Client) propstesting.StoreFactory {
	return func() props.IPropertyStore {
		ns := "dprops-test:" + uuid.NewString()
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			client.Del(ctx, ns)
		})
		return NewRedisStore(client, ns, time.Second)
	}
}

func Test(t *testing.T) {
	client := newTestClient(t)
	propstesting.RunPropertyStoreTests(t, "RedisStore", factory(t, client))
}

func Benchmark(b *testing.B) {
	client := newTestClient(b)
	propstesting.RunPropertyStoreBenchmarks(b, "RedisStore", factory(b, client))
}

func TestUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStore(client, "dprops-test", 200*time.Millisecond)

	_, _, err := store.Get("k")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	perr, ok := err.(*props.Error)
	if !ok {
		t.Fatalf("expected *props.Error, got %T", err)
	}
	if perr.Code != props.RetCInternalError {
		t.Errorf("expected RetCInternalError, got %s", perr.Code)
	}

	if err := store.SetAll(map[string]string{"a": "1"}); err == nil {
		t.Error("expected SetAll to fail against an unreachable server")
	}
	if err := store.SetAll(nil); err != nil {
		t.Errorf("empty SetAll should not touch the server, got %v", err)
	}
}
