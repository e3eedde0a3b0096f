// Package rpc lets independent processes share the property stores and lease
// managers of a dProps server. It is the communication layer between the
// clients (for example the props command, or an application embedding the
// guard package) and the shards of a server.
//
// The package is organized into several subpackages:
//
//   - common: The Message protocol, server and client configuration and the
//     logger factory used by every package.
//
//   - transport: Transport interfaces and the HTTP implementation, which also
//     exposes the metrics of the server.
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB).
//
//   - client: props.IPropertyStore and lease.ILeaseManager implementations that
//     forward every call to a shard of a remote server.
//
//   - server: The RPC server hosting the shards, with one adapter for property
//     operations and one for lease operations.
package rpc
