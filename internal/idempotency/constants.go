package idempotency

// Log message constants
const (
	LogMsgCacheGetFailed = "Idempotency cache read failed, computing without replay protection"
	LogMsgCacheSetFailed = "Idempotency cache write failed, result will not be replayable"
	LogMsgReplayedResult = "Replaying cached result for idempotency key"
)
