package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricStaleServes = "search.stale_serves"
	MetricCacheAge    = "search.cache_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricSearches       = "business.searches"
	MetricBookmarkEvents = "business.bookmark_events"
)
