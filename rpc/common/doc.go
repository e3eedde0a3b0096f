// Package common provides the data structures shared by the RPC client, server
// and transports of the property service.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. The same struct is
//     used for requests and responses; which fields are set depends on the
//     MessageType. Factory functions exist for every request and response.
//
//   - MessageType: Enumeration of all supported operations, split into property
//     store operations (get, set, delete, getAll, setAll), lease operations
//     (acquire, release, sweep) and control messages.
//
//   - ServerConfig: Configuration of a server node: its shards and the store type
//     backing each of them, Redis and RAFT parameters, lease settings and the
//     HTTP endpoint. Provides helpers for converting to Dragonboat configurations.
//
//   - ClientConfig: Endpoints, timeouts and retry behavior of clients.
//
//   - Logger: Logging implementation plugged into Dragonboat's logger registry,
//     so every package obtains its logger with logger.GetLogger(name).
package common
