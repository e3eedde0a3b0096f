package serializer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ValentinKolb/dProps/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	batch := func(n int) map[string]string {
		entries := make(map[string]string, n)
		for i := 0; i < n; i++ {
			entries[fmt.Sprintf("property-%d", i)] = strings.Repeat("v", 64)
		}
		return entries
	}

	return map[string]common.Message{
		"Empty":        {MsgType: common.MsgTSuccess},
		"GetRequest":   *common.NewGetRequest("user-settings"),
		"SetRequest":   *common.NewSetRequest("user-settings", `{"signature":"Best regards","labels":["a","b"]}`),
		"LargeValue":   *common.NewSetRequest("blob", strings.Repeat("x", 16*1024)),
		"Acquire":      *common.NewAcquireRequest("ALL_PROPS", 10000000000),
		"AcquireReply": *common.NewAcquireResponse("3f1c7a52-5a0e-4a7e-9a51-0c6b3c9f8e11", true),
		"SmallBatch":   *common.NewSetAllRequest(batch(8)),
		"LargeBatch":   *common.NewGetAllResponse(batch(256), nil),
		"ErrorMessage": *common.NewErrorResponse("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."),
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := serializer.Serialize(msg); err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize %s: %v", msgName, err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var out common.Message
					if err := serializer.Deserialize(data, &out); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize reports the serialized size for each message type
func BenchmarkSize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		serializer := factory()

		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}
				b.ReportMetric(float64(len(data)), "bytes")
				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
