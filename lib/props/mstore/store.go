package mstore

import (
	"sync"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/puzpuzpuz/xsync/v3"
)

// Options configures a memory store.
type Options struct {
	// PropagationDelay is the time a write needs before other readers can see it.
	// Zero means writes are visible immediately.
	PropagationDelay time.Duration
}

type storeImpl struct {
	data *xsync.MapOf[string, string]

	// batchMu makes SetAll and GetAll mutually exclusive, so a snapshot never contains
	// half of a batch. Single key operations only take the read side.
	batchMu sync.RWMutex

	delay time.Duration

	// pending holds delayed writes in submission order. A single timer drains it.
	pendingMu sync.Mutex
	pending   []pendingWrite
	draining  bool
}

type pendingWrite struct {
	due time.Time
	fn  func()
}

// NewMemoryStore creates a new in-memory property store.
// Passing nil options creates a store without propagation delay.
func NewMemoryStore(opts *Options) props.IPropertyStore {
	s := &storeImpl{
		data: xsync.NewMapOf[string, string](),
	}
	if opts != nil {
		s.delay = opts.PropagationDelay
	}
	return s
}

// apply runs a write either immediately or after the configured propagation delay.
// Delayed writes become visible in the order they were submitted.
func (s *storeImpl) apply(fn func()) {
	if s.delay <= 0 {
		fn()
		return
	}

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending = append(s.pending, pendingWrite{due: time.Now().Add(s.delay), fn: fn})
	if !s.draining {
		s.draining = true
		time.AfterFunc(s.delay, s.drain)
	}
}

// drain applies every due write and reschedules itself for the rest.
func (s *storeImpl) drain() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	now := time.Now()
	n := 0
	for ; n < len(s.pending) && !s.pending[n].due.After(now); n++ {
		s.pending[n].fn()
	}
	clear(s.pending[:n])
	s.pending = s.pending[n:]

	if len(s.pending) == 0 {
		s.pending = nil
		s.draining = false
		return
	}
	time.AfterFunc(s.pending[0].due.Sub(now), s.drain)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see props/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (string, bool, error) {
	s.batchMu.RLock()
	defer s.batchMu.RUnlock()
	val, ok := s.data.Load(key)
	return val, ok, nil
}

func (s *storeImpl) Set(key, value string) error {
	s.apply(func() {
		s.batchMu.RLock()
		defer s.batchMu.RUnlock()
		s.data.Store(key, value)
	})
	return nil
}

func (s *storeImpl) Delete(key string) error {
	s.apply(func() {
		s.batchMu.RLock()
		defer s.batchMu.RUnlock()
		s.data.Delete(key)
	})
	return nil
}

func (s *storeImpl) GetAll() (map[string]string, error) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	entries := make(map[string]string, s.data.Size())
	s.data.Range(func(key, value string) bool {
		entries[key] = value
		return true
	})
	return entries, nil
}

func (s *storeImpl) SetAll(entries map[string]string) error {
	// Copy so later changes by the caller cannot leak into a delayed write
	batch := make(map[string]string, len(entries))
	for k, v := range entries {
		batch[k] = v
	}
	s.apply(func() {
		s.batchMu.Lock()
		defer s.batchMu.Unlock()
		for k, v := range batch {
			s.data.Store(k, v)
		}
	})
	return nil
}
