package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Gacha errors
	ErrMsgGachaNotFound   = "gacha not found"
	ErrMsgGachaInactive   = "gacha is not accepting draws"
	ErrMsgMaxDrawsReached = "gacha has reached its maximum draws"

	// Draw algorithm errors
	ErrMsgInvalidDropRate       = "invalid drop rate"
	ErrMsgInvalidDropRateConfig = "drop rates sum to zero"
	ErrMsgEmptyItemPool         = "item pool is empty"
	ErrMsgNoItemsAvailable      = "no items available"
	ErrMsgNoAvailableItems      = "no available items for draw"
	ErrMsgInvalidDrawCount      = "draw count must be between 1 and 10"

	// Saga errors
	ErrMsgPaymentFailed      = "payment charge failed"
	ErrMsgRefundFailed       = "payment refund failed"
	ErrMsgRewardGrantFailed  = "reward grant failed"
	ErrMsgLedgerCreditFailed = "ledger credit failed"
	ErrMsgCompensationFailed = "compensation failed"
	ErrMsgItemStockConflict  = "item stock cap exceeded by concurrent draw"

	// Ledger errors
	ErrMsgInsufficientBalance  = "insufficient medal balance"
	ErrMsgInvalidAmount        = "amount must be non-zero"
	ErrMsgAdjustReasonRequired = "adjustment reason is required"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Gacha errors
	ErrGachaNotFound   = errors.New(ErrMsgGachaNotFound)
	ErrGachaInactive   = errors.New(ErrMsgGachaInactive)
	ErrMaxDrawsReached = errors.New(ErrMsgMaxDrawsReached)

	// Draw algorithm errors
	ErrInvalidDropRate              = errors.New(ErrMsgInvalidDropRate)
	ErrInvalidDropRateConfiguration = errors.New(ErrMsgInvalidDropRateConfig)
	ErrEmptyItemPool                = errors.New(ErrMsgEmptyItemPool)
	ErrNoItemsAvailable             = errors.New(ErrMsgNoItemsAvailable)
	ErrNoAvailableItemsForDraw      = errors.New(ErrMsgNoAvailableItems)
	ErrInvalidDrawCount             = errors.New(ErrMsgInvalidDrawCount)

	// Saga errors
	ErrPaymentFailed      = errors.New(ErrMsgPaymentFailed)
	ErrRefundFailed       = errors.New(ErrMsgRefundFailed)
	ErrRewardGrantFailed  = errors.New(ErrMsgRewardGrantFailed)
	ErrLedgerCreditFailed = errors.New(ErrMsgLedgerCreditFailed)
	ErrCompensationFailed = errors.New(ErrMsgCompensationFailed)
	ErrItemStockConflict  = errors.New(ErrMsgItemStockConflict)

	// Ledger errors
	ErrInsufficientBalance  = errors.New(ErrMsgInsufficientBalance)
	ErrInvalidAmount        = errors.New(ErrMsgInvalidAmount)
	ErrAdjustReasonRequired = errors.New(ErrMsgAdjustReasonRequired)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Database/System errors
	ErrTxClosed = errors.New(ErrMsgTxClosed)
)
