package rstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
)

var log = logger.GetLogger("store")

// Config holds the connection settings for a Redis backed store.
type Config struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int
	Namespace string        // name of the redis hash holding the store, e.g. "dprops:installation"
	Timeout   time.Duration // per call timeout (0 = 5s)
}

// storeImpl keeps all properties of one store as fields of a single redis hash.
// This makes GetAll (HGETALL) and SetAll (multi-field HSET) single atomic commands.
type storeImpl struct {
	client  redis.UniversalClient
	hash    string
	timeout time.Duration
}

// NewRedisClient creates a go-redis client from the config and verifies the connection.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStore creates a property store that keeps all keys in the redis hash named namespace.
// Two stores with different namespaces on the same client are fully independent.
func NewRedisStore(client redis.UniversalClient, namespace string, timeout time.Duration) props.IPropertyStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &storeImpl{
		client:  client,
		hash:    namespace,
		timeout: timeout,
	}
}

func (s *storeImpl) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func wrap(op string, err error) error {
	return props.NewError(props.RetCInternalError, fmt.Sprintf("redis %s: %v", op, err))
}

// --------------------------------------------------------------------------
// Interface Methods (docu see props/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("hget", err)
	}
	return val, true, nil
}

func (s *storeImpl) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return wrap("hset", err)
	}
	return nil
}

func (s *storeImpl) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.HDel(ctx, s.hash, key).Err(); err != nil {
		return wrap("hdel", err)
	}
	return nil
}

func (s *storeImpl) GetAll() (map[string]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	entries, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return nil, wrap("hgetall", err)
	}
	log.Debugf("redis getAll: hash=%s, keys=%d", s.hash, len(entries))
	return entries, nil
}

func (s *storeImpl) SetAll(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	// a single HSET with many fields is applied atomically by redis
	if err := s.client.HSet(ctx, s.hash, entries).Err(); err != nil {
		return wrap("hset", err)
	}
	return nil
}
