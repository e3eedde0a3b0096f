package guard

import (
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/mstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, props.IPropertyStore, props.IPropertyStore) {
	installation := mstore.NewMemoryStore(nil)
	principal := mstore.NewMemoryStore(nil)
	return NewService(installation, principal, nil, nil), installation, principal
}

func TestServiceScopesAreIndependent(t *testing.T) {
	svc, installation, principal := newTestService()

	require.True(t, svc.SetProperty("tone", "formal", props.ScopeInstallation))
	require.True(t, svc.SetProperty("tone", "casual", props.ScopePrincipal))

	val, _ := svc.GetProperty("tone", props.ScopeInstallation)
	assert.Equal(t, "formal", val)
	val, _ = svc.GetProperty("tone", props.ScopePrincipal)
	assert.Equal(t, "casual", val)

	// a lease in one scope does not block the same key in the other
	owner, ok := lease.NewLeaseManager(installation, nil).Acquire("tone", time.Minute)
	require.True(t, ok)
	assert.True(t, svc.SetProperty("tone", "brief", props.ScopePrincipal))
	lease.NewLeaseManager(installation, nil).Release("tone", owner)

	raw, _, _ := principal.Get("tone")
	assert.Equal(t, "brief", raw)

	require.True(t, svc.DeleteProperty("tone", props.ScopeInstallation))
	_, found := svc.GetProperty("tone", props.ScopeInstallation)
	assert.False(t, found)
}

func TestServiceBatchOperations(t *testing.T) {
	svc, _, _ := newTestService()

	require.True(t, svc.SetProperties(map[string]string{"a": "1", "b": "2"}, props.ScopePrincipal))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, svc.GetAllProperties(props.ScopePrincipal))
	assert.Empty(t, svc.GetAllProperties(props.ScopeInstallation))

	require.NoError(t, svc.SaveProperties(map[string]string{"c": "3"}, props.ScopePrincipal))
}

func TestSavePropertiesReportsFailure(t *testing.T) {
	clock := lease.NewSimulatedClock(time.Now())
	svc := NewService(newConflictingStore(), newConflictingStore(), nil, &lease.Options{Clock: clock})

	err := svc.SaveProperties(map[string]string{"settings": "{}"}, props.ScopeInstallation)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Contains(t, err.Error(), "failed to save")

	// backoff ran on the clock from the lease options
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, clock.Sleeps())
}

func TestServiceInvalidScopePanics(t *testing.T) {
	svc, _, _ := newTestService()
	assert.Panics(t, func() { svc.GetProperty("k", props.Scope(7)) })
	assert.Panics(t, func() { svc.SetProperties(map[string]string{"k": "v"}, props.Scope(7)) })
}

func TestServiceCustomLeasePrefix(t *testing.T) {
	installation := mstore.NewMemoryStore(nil)
	svc := NewService(installation, mstore.NewMemoryStore(nil), nil, &lease.Options{KeyPrefix: "lease:"})

	require.NoError(t, installation.Set("lease:other", lease.NewRecord("x", time.Now(), time.Hour).Encode()))
	require.True(t, svc.SetProperty("LOCK_is_plain_data_now", "1", props.ScopeInstallation))

	assert.Equal(t, map[string]string{"LOCK_is_plain_data_now": "1"}, svc.GetAllProperties(props.ScopeInstallation))
}

func TestCleanupExpiredLocks(t *testing.T) {
	svc, installation, principal := newTestService()
	dead := lease.NewRecord("crashed", time.Now().Add(-time.Hour), time.Second).Encode()
	live := lease.NewRecord("busy", time.Now(), time.Hour).Encode()

	require.NoError(t, installation.Set("LOCK_a", dead))
	require.NoError(t, installation.Set("LOCK_b", "corrupt"))
	require.NoError(t, installation.Set("LOCK_c", live))
	require.NoError(t, principal.Set("LOCK_a", dead))

	assert.Equal(t, 3, svc.CleanupExpiredLocks())

	_, found, _ := installation.Get("LOCK_c")
	assert.True(t, found)
}

func TestSetPropertiesIsAtomicForReaders(t *testing.T) {
	svc, _, _ := newTestService()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var torn []map[string]string
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			all := svc.GetAllProperties(props.ScopeInstallation)
			_, hasA := all["a"]
			_, hasB := all["b"]
			if hasA != hasB {
				mu.Lock()
				torn = append(torn, all)
				mu.Unlock()
			}
		}
	}()

	require.True(t, svc.SetProperties(map[string]string{"a": "1", "b": "2"}, props.ScopeInstallation))
	time.Sleep(20 * time.Millisecond)
	close(stop)
	wg.Wait()

	assert.Empty(t, torn, "a reader saw only part of the batch")
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, svc.GetAllProperties(props.ScopeInstallation))
}

func TestConcurrentWritersNeverLoseLeaseDiscipline(t *testing.T) {
	svc, installation, _ := newTestService()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.SetProperty("counter", "x", props.ScopeInstallation) {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, succeeded, 1)
	assertNoLeaseRecords(t, installation)
}
