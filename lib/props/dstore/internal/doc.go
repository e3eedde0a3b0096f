// Package internal provides the communication protocol structures and serialization
// logic for the dstore package. It defines the wire format used to transmit operations
// between the store client and the replicated state machine.
//
// This package is intended for internal use by the dstore implementation and should
// not be imported directly by external code.
//
//   - Command System: Write operations (Set, Delete, SetAll). Commands are serialized,
//     proposed to the RAFT cluster and applied by the state machine. A SetAll command is a
//     single log entry, so all of its entries become visible together.
//
//   - Query System: Read operations (Get, GetAll). Queries are executed locally on the
//     state machine and therefore do not require serialization.
//
// Command Format:
//
//   - 1 byte: Command type
//   - 4 bytes: Number of entries (uint32, big endian)
//   - per entry: 4 bytes key length, key data, 4 bytes value length, value data
//
// The same encoding of a SetAll command is used for state machine snapshots.
package internal
