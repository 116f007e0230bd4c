package gacha

// Saga stage names. The pipeline is strictly linear; compensation is
// reachable from any stage after charging has succeeded.
const (
	StageValidating   = "validating"
	StageCharging     = "charging"
	StageDrawing      = "drawing"
	StagePersisting   = "persisting"
	StageRewarding    = "rewarding"
	StageCrediting    = "crediting"
	StageDone         = "done"
	StageCompensating = "compensating"
)

// Log message constants
const (
	LogMsgDrawRequested        = "Draw requested"
	LogMsgDrawCompleted        = "Draw completed"
	LogMsgDrawFailed           = "Draw failed"
	LogMsgCompensating         = "Compensating failed draw"
	LogMsgCompensationComplete = "Compensation complete"
	LogMsgCompensationFailed   = "COMPENSATION FAILED, manual reconciliation required"
	LogMsgRevokeFailed         = "Failed to revoke granted reward"
	LogMsgEventPublishFailed   = "Failed to publish draw event"
)

// Error context strings
const (
	ErrContextGachaLookupFailed    = "failed to load gacha"
	ErrContextItemsLoadFailed      = "failed to load gacha items"
	ErrContextHistoryLoadFailed    = "failed to load draw history"
	ErrContextChargeFailed         = "charge failed"
	ErrContextPersistFailed        = "failed to persist draw results"
	ErrContextRefundFailed         = "refund failed"
	ErrContextCreditReversalFailed = "failed to reverse medal credit"
)
