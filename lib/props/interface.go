package props

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IPropertyStore is the interface of a flat string-to-string property store.
// Every call stands on its own: the interface gives no atomicity across calls, so a Set
// followed by a Get from another execution may interleave arbitrarily. Only SetAll is
// expected to apply all of its entries at once.
type IPropertyStore interface {
	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value string, found bool, err error)
	// Set inserts or updates a key–value pair.
	Set(key, value string) (err error)
	// Delete removes a key–value pair. Deleting a missing key is not an error.
	Delete(key string) (err error)
	// GetAll returns a copy of every key–value pair in the store.
	GetAll() (entries map[string]string, err error)
	// SetAll inserts or updates all given pairs in one bulk operation.
	SetAll(entries map[string]string) (err error)
}

// --------------------------------------------------------------------------
// Scopes
// --------------------------------------------------------------------------

// Scope selects one of the two independent property stores.
// Each scope is its own lock domain: a lease in one scope never guards a key in the other.
type Scope uint8

const (
	ScopeInstallation Scope = iota // installation-wide properties ("script" properties)
	ScopePrincipal                 // per-principal properties ("user" properties)
)

// Scopes lists all valid scopes.
var Scopes = []Scope{ScopeInstallation, ScopePrincipal}

func (s Scope) String() string {
	switch s {
	case ScopeInstallation:
		return "installation"
	case ScopePrincipal:
		return "principal"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the defined scopes.
func (s Scope) Valid() bool {
	return s == ScopeInstallation || s == ScopePrincipal
}

// ParseScope converts a scope name into a Scope. It accepts the legacy names "script" and "user".
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "installation", "script":
		return ScopeInstallation, nil
	case "principal", "user":
		return ScopePrincipal, nil
	default:
		return 0, fmt.Errorf("invalid scope %q (expected installation or principal)", name)
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("PropertyStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new property store error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the backend.
	RetCInvalidOperation                    // 3: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
