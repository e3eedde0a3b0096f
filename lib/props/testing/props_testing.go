package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dProps/lib/props"
)

// StoreFactory is a function that creates a new, empty instance of a property store implementation.
// Every call must return a store that shares no data with stores returned earlier.
type StoreFactory func() props.IPropertyStore

// RunPropertyStoreTests runs a comprehensive test suite for an IPropertyStore implementation.
// The suite expects writes to be visible immediately, so stores with a propagation delay
// must be created without it.
func RunPropertyStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("GetAll", func(t *testing.T) {
			testGetAll(t, factory())
		})

		t.Run("SetAll", func(t *testing.T) {
			testSetAll(t, factory())
		})

		t.Run("SetAllIsAtomic", func(t *testing.T) {
			testSetAllIsAtomic(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Independence", func(t *testing.T) {
			testIndependence(t, factory(), factory())
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustGet(t testing.TB, store props.IPropertyStore, key string) (string, bool) {
	t.Helper()
	val, found, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return val, found
}

func mustSet(t testing.TB, store props.IPropertyStore, key, value string) {
	t.Helper()
	if err := store.Set(key, value); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}

func mustGetAll(t testing.TB, store props.IPropertyStore) map[string]string {
	t.Helper()
	entries, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}
	return entries
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, store props.IPropertyStore) {
	mustSet(t, store, "test-key", "test-value1")

	if val, found := mustGet(t, store, "test-key"); !found || val != "test-value1" {
		t.Errorf("Expected test-value1, got %q (found=%v)", val, found)
	}

	mustSet(t, store, "test-key", "test-value2")

	if val, found := mustGet(t, store, "test-key"); !found || val != "test-value2" {
		t.Errorf("Expected test-value2, got %q (found=%v)", val, found)
	}

	if _, found := mustGet(t, store, "nonexistent-key"); found {
		t.Errorf("Expected nonexistent key to return found=false")
	}
}

func testDelete(t *testing.T, store props.IPropertyStore) {
	mustSet(t, store, "delete-me", "value")

	if err := store.Delete("delete-me"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := mustGet(t, store, "delete-me"); found {
		t.Errorf("Expected key to be gone after Delete")
	}

	// Deleting a missing key is not an error
	if err := store.Delete("delete-me"); err != nil {
		t.Errorf("Deleting a missing key should succeed, got %v", err)
	}
}

func testGetAll(t *testing.T, store props.IPropertyStore) {
	if entries := mustGetAll(t, store); len(entries) != 0 {
		t.Errorf("Expected empty store, got %v", entries)
	}

	mustSet(t, store, "a", "1")
	mustSet(t, store, "b", "2")
	mustSet(t, store, "LOCK_a", `{"ownerId":"x","expiresAt":1}`)

	entries := mustGetAll(t, store)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d: %v", len(entries), entries)
	}
	if entries["a"] != "1" || entries["b"] != "2" {
		t.Errorf("Unexpected entries: %v", entries)
	}

	// The returned map is a copy
	entries["a"] = "changed"
	if val, _ := mustGet(t, store, "a"); val != "1" {
		t.Errorf("Modifying the GetAll result changed the store: got %q", val)
	}
}

func testSetAll(t *testing.T, store props.IPropertyStore) {
	mustSet(t, store, "keep", "old")
	mustSet(t, store, "overwrite", "old")

	batch := map[string]string{
		"overwrite": "new",
		"added":     "new",
	}
	if err := store.SetAll(batch); err != nil {
		t.Fatalf("SetAll failed: %v", err)
	}

	entries := mustGetAll(t, store)
	want := map[string]string{"keep": "old", "overwrite": "new", "added": "new"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %v, got %v", want, entries)
	}
	for k, v := range want {
		if entries[k] != v {
			t.Errorf("Key %q: expected %q, got %q", k, v, entries[k])
		}
	}

	// An empty batch is a no-op
	if err := store.SetAll(map[string]string{}); err != nil {
		t.Errorf("Empty SetAll failed: %v", err)
	}
}

func testSetAllIsAtomic(t *testing.T, store props.IPropertyStore) {
	const rounds = 50
	const width = 20

	var wg sync.WaitGroup
	errs := make(chan error, rounds)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := 0; r < rounds; r++ {
			batch := make(map[string]string, width)
			for i := 0; i < width; i++ {
				batch[fmt.Sprintf("k%d", i)] = fmt.Sprintf("round-%d", r)
			}
			if err := store.SetAll(batch); err != nil {
				errs <- err
				return
			}
		}
	}()

	// A snapshot must contain either no batch key or all of them, all from the same round
	for r := 0; r < rounds; r++ {
		entries := mustGetAll(t, store)
		if len(entries) == 0 {
			continue
		}
		if len(entries) != width {
			t.Fatalf("Snapshot contains %d of %d batch keys", len(entries), width)
		}
		round := entries["k0"]
		for k, v := range entries {
			if v != round {
				t.Fatalf("Snapshot mixes rounds: %s=%s but k0=%s", k, v, round)
			}
		}
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("SetAll failed: %v", err)
	}
}

func testEdgeCases(t *testing.T, store props.IPropertyStore) {
	// Empty value
	mustSet(t, store, "empty", "")
	if val, found := mustGet(t, store, "empty"); !found || val != "" {
		t.Errorf("Expected empty value to be stored, got %q (found=%v)", val, found)
	}

	// Large value
	large := make([]byte, 64*1024)
	for i := range large {
		large[i] = byte('a' + i%26)
	}
	mustSet(t, store, "large", string(large))
	if val, _ := mustGet(t, store, "large"); val != string(large) {
		t.Errorf("Large value was not stored correctly (len %d)", len(val))
	}

	// Unicode and JSON
	mustSet(t, store, "你好", `{"greeting":"世界"}`)
	if val, _ := mustGet(t, store, "你好"); val != `{"greeting":"世界"}` {
		t.Errorf("Unicode value mismatch: %q", val)
	}
}

func testIndependence(t *testing.T, a, b props.IPropertyStore) {
	mustSet(t, a, "shared-name", "from-a")

	if _, found := mustGet(t, b, "shared-name"); found {
		t.Errorf("A write to one store must not be visible in another")
	}
	if entries := mustGetAll(t, b); len(entries) != 0 {
		t.Errorf("Expected second store to stay empty, got %v", entries)
	}
}

func testConcurrentAccess(t *testing.T, store props.IPropertyStore) {
	const goroutines = 10
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i)
				if err := store.Set(key, key); err != nil {
					t.Errorf("Set(%q) failed: %v", key, err)
					return
				}
				if val, found, err := store.Get(key); err != nil || !found || val != key {
					t.Errorf("Get(%q) = %q, %v, %v", key, val, found, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if entries := mustGetAll(t, store); len(entries) != goroutines*perGoroutine {
		t.Errorf("Expected %d entries, got %d", goroutines*perGoroutine, len(entries))
	}
}
