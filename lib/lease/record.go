package lease

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptRecord is returned by ParseRecord for values that are not a usable lease record.
var ErrCorruptRecord = errors.New("corrupt lease record")

// Record is the value stored under a lease key.
type Record struct {
	OwnerID   string `json:"ownerId"`
	ExpiresAt int64  `json:"expiresAt"` // unix milliseconds
}

// NewRecord creates a record owned by ownerID that expires ttl after now.
func NewRecord(ownerID string, now time.Time, ttl time.Duration) Record {
	return Record{
		OwnerID:   ownerID,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// ParseRecord decodes a stored lease record. Malformed JSON, an empty owner and a
// missing expiry all yield ErrCorruptRecord.
func ParseRecord(raw string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if rec.OwnerID == "" || rec.ExpiresAt <= 0 {
		return Record{}, fmt.Errorf("%w: missing owner or expiry", ErrCorruptRecord)
	}
	return rec, nil
}

// Encode returns the stored form of the record.
func (r Record) Encode() string {
	// Marshal of a struct of a string and an int64 cannot fail
	b, _ := json.Marshal(r)
	return string(b)
}

// Valid reports whether the record still guards its key at now.
// The zero Record (used for corrupt values) is never valid.
func (r Record) Valid(now time.Time) bool {
	return r.OwnerID != "" && now.UnixMilli() < r.ExpiresAt
}

// Expiry returns the expiry as a time.Time.
func (r Record) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}
