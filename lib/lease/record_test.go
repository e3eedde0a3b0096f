package lease

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Record
		corrupt bool
	}{
		{name: "valid", raw: `{"ownerId":"a","expiresAt":1700000000000}`, want: Record{OwnerID: "a", ExpiresAt: 1700000000000}},
		{name: "extra fields", raw: `{"ownerId":"a","expiresAt":5,"note":"x"}`, want: Record{OwnerID: "a", ExpiresAt: 5}},
		{name: "not json", raw: "garbage", corrupt: true},
		{name: "empty", raw: "", corrupt: true},
		{name: "empty owner", raw: `{"ownerId":"","expiresAt":1700000000000}`, corrupt: true},
		{name: "missing expiry", raw: `{"ownerId":"a"}`, corrupt: true},
		{name: "wrong type", raw: `{"ownerId":"a","expiresAt":"soon"}`, corrupt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.raw)
			if tt.corrupt {
				assert.ErrorIs(t, err, ErrCorruptRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
		})
	}
}

func TestRecordEncodeFormat(t *testing.T) {
	rec := Record{OwnerID: "owner-1", ExpiresAt: 1712345678901}
	assert.Equal(t, `{"ownerId":"owner-1","expiresAt":1712345678901}`, rec.Encode())

	parsed, err := ParseRecord(rec.Encode())
	require.NoError(t, err)
	assert.Equal(t, rec, parsed)
}

func TestRecordValid(t *testing.T) {
	now := time.UnixMilli(10_000)
	rec := NewRecord("a", now, 100*time.Millisecond)

	assert.Equal(t, int64(10_100), rec.ExpiresAt)
	assert.True(t, rec.Valid(now))
	assert.True(t, rec.Valid(now.Add(99*time.Millisecond)))
	assert.False(t, rec.Valid(now.Add(100*time.Millisecond)), "a lease is dead at its deadline")
	assert.False(t, Record{}.Valid(now), "the zero record is never valid")
}
