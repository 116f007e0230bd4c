package reward

// API endpoints on the reward inventory service
const (
	EndpointGrant  = "/v1/grants"
	EndpointRevoke = "/v1/grants/%s"
)

// Request headers
const (
	HeaderAPIKey = "X-Api-Key"
)

// Log message constants
const (
	LogMsgGrantRequested  = "Item grant requested"
	LogMsgGrantSucceeded  = "Item grant succeeded"
	LogMsgRevokeRequested = "Item grant revoke requested"
	LogMsgRevokeSucceeded = "Item grant revoke succeeded"
)
