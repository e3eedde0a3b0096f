package guard

import (
	"github.com/VictoriaMetrics/metrics"
)

var (
	failedAttempts = metrics.GetOrCreateCounter(`dprops_guard_failed_attempts_total`)

	fallbackGet    = metrics.GetOrCreateCounter(`dprops_guard_read_fallback_total{op="get"}`)
	fallbackGetAll = metrics.GetOrCreateCounter(`dprops_guard_read_fallback_total{op="getAll"}`)

	writeFailedSet    = metrics.GetOrCreateCounter(`dprops_guard_write_failure_total{op="set"}`)
	writeFailedDelete = metrics.GetOrCreateCounter(`dprops_guard_write_failure_total{op="delete"}`)
	writeFailedSetAll = metrics.GetOrCreateCounter(`dprops_guard_write_failure_total{op="setAll"}`)
)
