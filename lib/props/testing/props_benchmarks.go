package testing

import (
	"fmt"
	"testing"
)

// RunPropertyStoreBenchmarks runs all benchmarks for a property store implementation
func RunPropertyStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			store := factory()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					key := fmt.Sprintf("key-%d", counter%1024)
					_ = store.Set(key, "value")
					counter++
				}
			})
		})

		b.Run("Get", func(b *testing.B) {
			store := factory()
			for i := 0; i < 1024; i++ {
				_ = store.Set(fmt.Sprintf("key-%d", i), "value")
			}
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					_, _, _ = store.Get(fmt.Sprintf("key-%d", counter%1024))
					counter++
				}
			})
		})

		b.Run("GetAll", func(b *testing.B) {
			store := factory()
			for i := 0; i < 64; i++ {
				_ = store.Set(fmt.Sprintf("key-%d", i), "value")
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = store.GetAll()
			}
		})

		b.Run("SetAll", func(b *testing.B) {
			store := factory()
			batch := make(map[string]string, 16)
			for i := 0; i < 16; i++ {
				batch[fmt.Sprintf("key-%d", i)] = "value"
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = store.SetAll(batch)
			}
		})
	})
}
