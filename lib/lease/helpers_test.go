package lease

import (
	"errors"
	"sync"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
)

var errStoreDown = errors.New("store down")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error)   { return "", false, errStoreDown }
func (failingStore) Set(string, string) error           { return errStoreDown }
func (failingStore) Delete(string) error                { return errStoreDown }
func (failingStore) GetAll() (map[string]string, error) { return nil, errStoreDown }
func (failingStore) SetAll(map[string]string) error     { return errStoreDown }

// hookStore wraps a store and lets tests intercept single operations.
type hookStore struct {
	props.IPropertyStore
	onSet    func(key, value string) error
	onDelete func(key string) error
	onGetAll func() (map[string]string, error)
}

func (s *hookStore) Set(key, value string) error {
	if s.onSet != nil {
		return s.onSet(key, value)
	}
	return s.IPropertyStore.Set(key, value)
}

func (s *hookStore) Delete(key string) error {
	if s.onDelete != nil {
		return s.onDelete(key)
	}
	return s.IPropertyStore.Delete(key)
}

func (s *hookStore) GetAll() (map[string]string, error) {
	if s.onGetAll != nil {
		return s.onGetAll()
	}
	return s.IPropertyStore.GetAll()
}

// barrierClock blocks every Sleep until the given number of callers are sleeping.
type barrierClock struct {
	wg *sync.WaitGroup
}

func newBarrierClock(parties int) *barrierClock {
	wg := &sync.WaitGroup{}
	wg.Add(parties)
	return &barrierClock{wg: wg}
}

func (c *barrierClock) Now() time.Time { return time.Now() }

func (c *barrierClock) Sleep(time.Duration) {
	c.wg.Done()
	c.wg.Wait()
}
