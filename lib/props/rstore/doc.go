// Package rstore implements props.IPropertyStore on top of Redis using go-redis.
//
// All properties of one store live as fields of a single Redis hash named by the
// namespace, so the installation and principal scopes of a service map to two hashes:
//
//	Get    -> HGET
//	Set    -> HSET (one field)
//	Delete -> HDEL
//	GetAll -> HGETALL
//	SetAll -> HSET (many fields)
//
// HGETALL and a multi-field HSET are single commands, which gives SetAll the required
// all-or-nothing visibility without transactions. No other Redis feature (SET NX,
// WATCH, scripts) is used: the lease layer on top is built to work with nothing more
// than plain reads and writes, and this backend keeps to that contract.
//
// Usage:
//
//	client, err := rstore.NewRedisClient(rstore.Config{Addr: "localhost:6379"})
//	if err != nil { ... }
//	store := rstore.NewRedisStore(client, "dprops:installation", 2*time.Second)
//
// The conformance tests of this package run only when DPROPS_TEST_REDIS_ADDR points to
// a reachable server.
package rstore
