package postgres

// Error message constants for postgres repository operations
const (
	ErrMsgFailedToBeginTx = "failed to begin transaction"

	ErrMsgFailedToGetGacha        = "failed to get gacha"
	ErrMsgFailedToGetGachaItems   = "failed to get gacha items"
	ErrMsgFailedToGetDrawHistory  = "failed to get draw history"
	ErrMsgFailedToUpdateDrawCount = "failed to update gacha draw count"
	ErrMsgFailedToInsertResults   = "failed to insert draw results"
	ErrMsgFailedToUpdateItemCount = "failed to update item count"
	ErrMsgFailedToDeleteResults   = "failed to delete draw results"

	ErrMsgFailedToGetBalance    = "failed to get balance"
	ErrMsgFailedToListBalances  = "failed to list balances"
	ErrMsgFailedToListTxHistory = "failed to list transaction history"
	ErrMsgFailedToUpsertBalance = "failed to upsert balance"
	ErrMsgFailedToInsertTx      = "failed to insert medal transaction"
)
