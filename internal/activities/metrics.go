package activities

import "sync/atomic"

// Simple in-memory counters for observability (per-process only).
type aggregationCounters struct {
	backendErrors   uint64
	transportErrors uint64
	cacheHits       uint64
	providerCalls   uint64
}

func (c *aggregationCounters) incBackendErr()   { atomic.AddUint64(&c.backendErrors, 1) }
func (c *aggregationCounters) incTransportErr() { atomic.AddUint64(&c.transportErrors, 1) }
func (c *aggregationCounters) incCacheHit()     { atomic.AddUint64(&c.cacheHits, 1) }
func (c *aggregationCounters) incProviderCall() { atomic.AddUint64(&c.providerCalls, 1) }

func (c *aggregationCounters) snapshot() (backendErrs, transportErrs, hits, providerCalls uint64) {
	return atomic.LoadUint64(&c.backendErrors),
		atomic.LoadUint64(&c.transportErrors),
		atomic.LoadUint64(&c.cacheHits),
		atomic.LoadUint64(&c.providerCalls)
}
