package guard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/mstore"
)

var errStoreDown = errors.New("store down")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error)   { return "", false, errStoreDown }
func (failingStore) Set(string, string) error           { return errStoreDown }
func (failingStore) Delete(string) error                { return errStoreDown }
func (failingStore) GetAll() (map[string]string, error) { return nil, errStoreDown }
func (failingStore) SetAll(map[string]string) error     { return errStoreDown }

// conflictingStore always reports a valid lease held by someone else and counts the
// writes that reach it for non-lease keys.
type conflictingStore struct {
	props.IPropertyStore

	mu         sync.Mutex
	dataWrites int
}

func newConflictingStore() *conflictingStore {
	return &conflictingStore{IPropertyStore: mstore.NewMemoryStore(nil)}
}

func (s *conflictingStore) Get(key string) (string, bool, error) {
	if strings.HasPrefix(key, lease.DefaultKeyPrefix) {
		return lease.NewRecord("someone-else", time.Now(), time.Hour).Encode(), true, nil
	}
	return s.IPropertyStore.Get(key)
}

func (s *conflictingStore) count(key string) {
	if !strings.HasPrefix(key, lease.DefaultKeyPrefix) {
		s.mu.Lock()
		s.dataWrites++
		s.mu.Unlock()
	}
}

func (s *conflictingStore) Set(key, value string) error {
	s.count(key)
	return s.IPropertyStore.Set(key, value)
}

func (s *conflictingStore) Delete(key string) error {
	s.count(key)
	return s.IPropertyStore.Delete(key)
}

func (s *conflictingStore) SetAll(entries map[string]string) error {
	for k := range entries {
		s.count(k)
	}
	return s.IPropertyStore.SetAll(entries)
}

func (s *conflictingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataWrites
}

// newTestAccessor builds an accessor with a lease manager on the same store, both driven
// by a simulated clock so backoff sleeps return immediately.
func newTestAccessor(store props.IPropertyStore) (*Accessor, *lease.SimulatedClock) {
	clock := lease.NewSimulatedClock(time.Now())
	leases := lease.NewLeaseManager(store, &lease.Options{Clock: clock})
	return NewAccessor(store, leases, &Config{Clock: clock}), clock
}
