package guard

import (
	"time"

	"github.com/ValentinKolb/dProps/lib/lease"
)

const (
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 100 * time.Millisecond
	DefaultAllPropsKey   = "ALL_PROPS"
	DefaultBatchPropsKey = "BATCH_PROPS"
)

// Config holds the tunables of an Accessor. Zero fields take their defaults.
type Config struct {
	LeaseTTL         time.Duration // lease duration for single key operations (5s)
	MaxRetries       int           // lease attempts per operation (3)
	RetryDelay       time.Duration // backoff unit, attempt n waits n*RetryDelay (100ms)
	BatchLeaseFactor int           // LeaseTTL multiplier for GetAll and SetAll (2)
	AllPropsKey      string        // lease key guarding GetAll
	BatchPropsKey    string        // lease key guarding SetAll
	LeaseKeyPrefix   string        // prefix of lease records, hidden from GetAll and protected from writes
	Clock            lease.Clock   // clock used for backoff sleeps
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LeaseTTL:         lease.DefaultLeaseTTL,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		BatchLeaseFactor: lease.BatchLeaseFactor,
		AllPropsKey:      DefaultAllPropsKey,
		BatchPropsKey:    DefaultBatchPropsKey,
		LeaseKeyPrefix:   lease.DefaultKeyPrefix,
		Clock:            lease.SystemClock(),
	}
}

func (c *Config) withDefaults() Config {
	res := *DefaultConfig()
	if c == nil {
		return res
	}
	if c.LeaseTTL > 0 {
		res.LeaseTTL = c.LeaseTTL
	}
	if c.MaxRetries > 0 {
		res.MaxRetries = c.MaxRetries
	}
	if c.RetryDelay > 0 {
		res.RetryDelay = c.RetryDelay
	}
	if c.BatchLeaseFactor > 0 {
		res.BatchLeaseFactor = c.BatchLeaseFactor
	}
	if c.AllPropsKey != "" {
		res.AllPropsKey = c.AllPropsKey
	}
	if c.BatchPropsKey != "" {
		res.BatchPropsKey = c.BatchPropsKey
	}
	if c.LeaseKeyPrefix != "" {
		res.LeaseKeyPrefix = c.LeaseKeyPrefix
	}
	if c.Clock != nil {
		res.Clock = c.Clock
	}
	return res
}

// batchTTL is the lease duration for operations on the whole store.
func (c *Config) batchTTL() time.Duration {
	return c.LeaseTTL * time.Duration(c.BatchLeaseFactor)
}
