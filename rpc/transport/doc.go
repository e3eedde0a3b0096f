// Package transport defines the interfaces for RPC communication between the
// property service clients and servers. Transports only move opaque byte
// payloads addressed to a shard; serialization is done by the caller.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and routes them to appropriate handlers.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// The only implementation is the HTTP transport in the http subpackage.
package transport
