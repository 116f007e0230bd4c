package ledger

// Log message constants
const (
	LogMsgCreditCalled         = "Credit called"
	LogMsgDebitCalled          = "Debit called"
	LogMsgTransferCalled       = "TransferFromPool called"
	LogMsgAdminAdjustCalled    = "AdminAdjustBalance called"
	LogMsgIntegrityCheckCalled = "PerformIntegrityCheck called"
	LogMsgDiscrepancyFound     = "Ledger balance disagrees with transaction log"
)

// Error context strings
const (
	ErrContextFailedToBeginTx        = "failed to begin ledger transaction"
	ErrContextFailedToCommitTx       = "failed to commit ledger transaction"
	ErrContextFailedToReadBalance    = "failed to read balance"
	ErrContextFailedToWriteBalance   = "failed to write balance"
	ErrContextFailedToAppendTx       = "failed to append ledger transaction"
	ErrContextFailedToListBalances   = "failed to list balances"
	ErrContextFailedToListTxHistory  = "failed to list transaction history"
)
