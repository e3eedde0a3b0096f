// Package http implements the HTTP transport for RPC communication between
// property service clients and servers.
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Requests are sent as
//     POST /{shardId} with the serialized message as body. Endpoints are selected
//     round-robin and every retry moves on to the next endpoint.
//
//   - httpServerTransport: Implements IRPCServerTransport. Routes POST /{shardId}
//     to the registered handler and exposes the process metrics on GET /metrics.
//     Listen shuts the server down gracefully when its context is cancelled.
//
//   - NewHandler: The http.Handler used by the server transport, usable on its own
//     (e.g. with httptest).
//
// Thread Safety:
//
//	The client transport is safe for concurrent use once connected. It uses
//	atomic operations for the round-robin counter.
package http
