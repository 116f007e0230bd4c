package server

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgReadyzFailed     = "Readiness check failed"
)

// Health endpoint status values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)
