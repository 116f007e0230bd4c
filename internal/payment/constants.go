package payment

// API endpoints on the payment provider
const (
	EndpointCharge = "/v1/charges"
	EndpointRefund = "/v1/charges/%s/refund"
)

// Request headers
const (
	HeaderAPIKey         = "X-Api-Key"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Charge statuses returned by the provider
const (
	StatusCaptured = "captured"
	StatusRefunded = "refunded"
)

// Log message constants
const (
	LogMsgChargeRequested = "Charge requested"
	LogMsgChargeSucceeded = "Charge succeeded"
	LogMsgRefundRequested = "Refund requested"
	LogMsgRefundSucceeded = "Refund succeeded"
)
