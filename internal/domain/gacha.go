package domain

import (
	"time"

	"github.com/google/uuid"
)

// GachaStatus represents the lifecycle state of a gacha
type GachaStatus string

const (
	GachaStatusActive   GachaStatus = "active"
	GachaStatusInactive GachaStatus = "inactive"
	// GachaStatusEnded is terminal; an ended gacha never returns to active
	GachaStatusEnded GachaStatus = "ended"
)

// Gacha is a configured, paid randomized-prize pool
type Gacha struct {
	ID          uuid.UUID
	CreatorID   string
	Name        string
	Price       int64 // price per single draw
	MedalReward int64 // push medals granted per single draw
	Status      GachaStatus
	StartAt     time.Time
	EndAt       *time.Time
	MaxDraws    *int
	TotalDraws  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DrawableAt reports whether the gacha accepts draws at the given instant.
// It checks status, the time window, and the total-draw cap.
func (g *Gacha) DrawableAt(now time.Time, drawCount int) error {
	if g.Status != GachaStatusActive {
		return ErrGachaInactive
	}
	if now.Before(g.StartAt) {
		return ErrGachaInactive
	}
	if g.EndAt != nil && now.After(*g.EndAt) {
		return ErrGachaInactive
	}
	if g.MaxDraws != nil && g.TotalDraws+drawCount > *g.MaxDraws {
		return ErrMaxDrawsReached
	}
	return nil
}

// GachaItem is a prize within a gacha's pool.
// CurrentCount is mutated only by successful draws; items are never
// deleted, only excluded once exhausted.
type GachaItem struct {
	ID           uuid.UUID
	GachaID      uuid.UUID
	Name         string
	Rarity       Rarity
	DropRate     float64
	MaxCount     *int
	CurrentCount int
}

// Exhausted reports whether the item's stock cap has been reached
func (i GachaItem) Exhausted() bool {
	return i.MaxCount != nil && i.CurrentCount >= *i.MaxCount
}

// DrawResult is one unit draw. A 10-pull produces 10 rows.
// Immutable once persisted.
type DrawResult struct {
	ID          uuid.UUID
	UserID      string
	GachaID     uuid.UUID
	ItemID      uuid.UUID
	Price       int64
	MedalReward int64
	CreatedAt   time.Time
}

// DrawOutcome is the caller-facing response of a successful draw request
type DrawOutcome struct {
	Results       []DrawResult  `json:"results"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// ChargeReceipt is returned by the payment collaborator on a successful charge
type ChargeReceipt struct {
	ChargeID string `json:"charge_id"`
	Status   string `json:"status"`
}
