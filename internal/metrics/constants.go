package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Draw metric names
const (
	MetricNameDrawsExecuted    = "draws_executed_total"
	MetricNameDrawFailures     = "draw_failures_total"
	MetricNameDrawDuration     = "draw_duration_seconds"
	MetricNameCompensations    = "draw_compensations_total"
	MetricNameCompensationFail = "draw_compensation_failures_total"
)

// Ledger metric names
const (
	MetricNameMedalsCredited      = "push_medals_credited_total"
	MetricNameLedgerDiscrepancies = "ledger_integrity_discrepancies_total"
)

// Idempotency metric names
const (
	MetricNameIdempotencyHits   = "idempotency_cache_hits_total"
	MetricNameIdempotencyMisses = "idempotency_cache_misses_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

const (
	HelpTextDrawsExecuted    = "Total number of unit draws executed successfully"
	HelpTextDrawFailures     = "Total number of failed draw requests by stage"
	HelpTextDrawDuration     = "End-to-end draw request latency in seconds"
	HelpTextCompensations    = "Total number of compensation runs after a post-charge failure"
	HelpTextCompensationFail = "Total number of compensation runs that themselves failed"
)

const (
	HelpTextMedalsCredited      = "Total push medals credited as draw rewards"
	HelpTextLedgerDiscrepancies = "Total balance records found inconsistent with their transaction log"
)

const (
	HelpTextIdempotencyHits   = "Total idempotency cache hits (replayed results)"
	HelpTextIdempotencyMisses = "Total idempotency cache misses (computed results)"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelStage  = "stage"
)

// HTTPLatencyBuckets covers the expected ops-endpoint latency range
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DrawLatencyBuckets covers the 3-second budget for a full 10-pull
var DrawLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10}
