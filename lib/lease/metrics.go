package lease

import (
	"github.com/VictoriaMetrics/metrics"
)

var (
	acquireSuccess    = metrics.GetOrCreateCounter(`dprops_lease_acquire_total{outcome="success"}`)
	acquireContention = metrics.GetOrCreateCounter(`dprops_lease_acquire_total{outcome="contention"}`)
	acquireLostRace   = metrics.GetOrCreateCounter(`dprops_lease_acquire_total{outcome="lost_race"}`)
	acquireExpired    = metrics.GetOrCreateCounter(`dprops_lease_acquire_total{outcome="expired"}`)
	acquireError      = metrics.GetOrCreateCounter(`dprops_lease_acquire_total{outcome="error"}`)
	releasesTotal     = metrics.GetOrCreateCounter(`dprops_lease_release_total`)
	sweepsTotal       = metrics.GetOrCreateCounter(`dprops_lease_sweep_total`)
	sweptTotal        = metrics.GetOrCreateCounter(`dprops_lease_swept_records_total`)
)
