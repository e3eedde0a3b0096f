// Package testing provides standardised tests and benchmarks for property store
// implementations that satisfy the props.IPropertyStore interface.
//
// The package contains:
//   - RunPropertyStoreTests: A test suite for validating conformance to the interface contract,
//     including atomic visibility of SetAll batches
//   - RunPropertyStoreBenchmarks: Throughput measurements for the five store operations
//
// Example usage:
//
//	factory := func() props.IPropertyStore {
//		return mstore.NewMemoryStore(nil)
//	}
//
//	propstesting.RunPropertyStoreTests(t, "MemoryStore", factory)
//	propstesting.RunPropertyStoreBenchmarks(b, "MemoryStore", factory)
package testing
