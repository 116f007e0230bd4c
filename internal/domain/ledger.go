package domain

import (
	"time"

	"github.com/google/uuid"
)

// MedalTxType classifies a push-medal ledger transaction
type MedalTxType string

const (
	MedalTxRewardGrant      MedalTxType = "reward_grant"
	MedalTxAdminAdjustment  MedalTxType = "admin_adjustment"
	MedalTxPoolTransfer     MedalTxType = "pool_transfer"
	MedalTxRefundAdjustment MedalTxType = "refund_adjustment"
)

// MedalBalance is the current balance for a (user, scope) pair.
// A nil Scope is the shared "pool" scope.
type MedalBalance struct {
	UserID    string
	Scope     *string
	Balance   int64
	UpdatedAt time.Time
}

// MedalTxRef points a ledger transaction at the operation that caused it
type MedalTxRef struct {
	ID   string
	Type string
}

// MedalTransaction is one append-only ledger entry.
// BalanceAfter = BalanceBefore + Amount is enforced at write time;
// rows are never mutated or deleted.
type MedalTransaction struct {
	ID            uuid.UUID
	UserID        string
	Scope         *string
	Type          MedalTxType
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
	ReferenceID   *string
	ReferenceType *string
	Reason        *string
	CreatedAt     time.Time
}

// IntegrityDiscrepancy reports a balance that disagrees with its transaction log
type IntegrityDiscrepancy struct {
	UserID   string
	Scope    *string
	Expected int64
	Actual   int64
	Delta    int64
	LastTxAt *time.Time
}

// ScopeKey renders a scope for logging and map keys; nil is the pool sentinel
func ScopeKey(scope *string) string {
	if scope == nil {
		return "pool"
	}
	return *scope
}
