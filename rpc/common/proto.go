package common

import (
	"encoding/json"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key       string            `json:"key,omitempty"`     // Used for: Get, Set, Delete, Acquire, Release
	Value     string            `json:"value,omitempty"`   // Used for: Set (request), Get (response)
	Entries   map[string]string `json:"entries,omitempty"` // Used for: SetAll (request), GetAll (response)
	TTLMillis uint64            `json:"ttl_ms,omitempty"`  // Used for: Acquire (request)
	Owner     string            `json:"owner,omitempty"`   // Used for: Acquire (response), Release (request)
	Count     uint64            `json:"count,omitempty"`   // Used for: Sweep (response)

	// Response only fields
	Ok  bool   `json:"ok,omitempty"`  // Used for: Get, Acquire responses
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message
}

// TTL returns TTLMillis as a duration.
func (m *Message) TTL() time.Duration {
	return time.Duration(m.TTLMillis) * time.Millisecond
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// withErr sets the error text of msg if err is not nil and returns msg.
func withErr(msg *Message, err error) *Message {
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{MsgType: MsgTPropGet, Key: key}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value string, ok bool, err error) *Message {
	return withErr(&Message{MsgType: MsgTPropGet, Value: value, Ok: ok}, err)
}

// NewSetRequest creates a new Set request
func NewSetRequest(key, value string) *Message {
	return &Message{MsgType: MsgTPropSet, Key: key, Value: value}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTPropSet}, err)
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{MsgType: MsgTPropDelete, Key: key}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTPropDelete}, err)
}

// NewGetAllRequest creates a new GetAll request
func NewGetAllRequest() *Message {
	return &Message{MsgType: MsgTPropGetAll}
}

// NewGetAllResponse creates a new GetAll response
func NewGetAllResponse(entries map[string]string, err error) *Message {
	return withErr(&Message{MsgType: MsgTPropGetAll, Entries: entries}, err)
}

// NewSetAllRequest creates a new SetAll request
func NewSetAllRequest(entries map[string]string) *Message {
	return &Message{MsgType: MsgTPropSetAll, Entries: entries}
}

// NewSetAllResponse creates a new SetAll response
func NewSetAllResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTPropSetAll}, err)
}

// NewAcquireRequest creates a new Acquire request
func NewAcquireRequest(key string, ttl time.Duration) *Message {
	return &Message{MsgType: MsgTLeaseAcquire, Key: key, TTLMillis: uint64(ttl.Milliseconds())}
}

// NewAcquireResponse creates a new Acquire response
func NewAcquireResponse(ownerID string, ok bool) *Message {
	return &Message{MsgType: MsgTLeaseAcquire, Owner: ownerID, Ok: ok}
}

// NewReleaseRequest creates a new Release request. An empty ownerID releases unconditionally.
func NewReleaseRequest(key, ownerID string) *Message {
	return &Message{MsgType: MsgTLeaseRelease, Key: key, Owner: ownerID}
}

// NewReleaseResponse creates a new Release response
func NewReleaseResponse() *Message {
	return &Message{MsgType: MsgTLeaseRelease}
}

// NewSweepRequest creates a new Sweep request
func NewSweepRequest() *Message {
	return &Message{MsgType: MsgTLeaseSweep}
}

// NewSweepResponse creates a new Sweep response
func NewSweepResponse(deleted int) *Message {
	return &Message{MsgType: MsgTLeaseSweep, Count: uint64(deleted)}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{MsgType: MsgTError, Err: err}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

var msgTypeNames = map[MessageType]string{
	MsgTSuccess:      "success",
	MsgTError:        "error",
	MsgTPropGet:      "get",
	MsgTPropSet:      "set",
	MsgTPropDelete:   "delete",
	MsgTPropGetAll:   "getAll",
	MsgTPropSetAll:   "setAll",
	MsgTLeaseAcquire: "acquire",
	MsgTLeaseRelease: "release",
	MsgTLeaseSweep:   "sweep",
}

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsLeaseOp reports whether t is handled by the lease adapter.
func (t MessageType) IsLeaseOp() bool {
	return t == MsgTLeaseAcquire || t == MsgTLeaseRelease || t == MsgTLeaseSweep
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for typ, name := range msgTypeNames {
		if name == s {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown message type: %s", s)
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IPropertyStore operations

	MsgTPropGet    // Get a value by key
	MsgTPropSet    // Set a key-value pair
	MsgTPropDelete // Delete a key-value pair
	MsgTPropGetAll // Get all key-value pairs
	MsgTPropSetAll // Set many key-value pairs at once

	// ILeaseManager operations

	MsgTLeaseAcquire // Acquire a lease
	MsgTLeaseRelease // Release a lease
	MsgTLeaseSweep   // Delete dead lease records
)
