package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Common event types
const (
	DrawCompleted Type = "draw.completed"
	// DrawCompensationFailed is the operator-facing alert: a post-charge
	// failure could not be fully compensated and represents uncorrected
	// financial exposure.
	DrawCompensationFailed Type = "draw.compensation_failed"
	LedgerDiscrepancyFound Type = "ledger.discrepancy_found"
)

// Typed event payloads for type safety

// DrawCompletedPayloadV1 is the typed payload for completed draw requests
type DrawCompletedPayloadV1 struct {
	UserID      string `json:"user_id"`
	GachaID     string `json:"gacha_id"`
	DrawCount   int    `json:"draw_count"`
	TotalPrice  int64  `json:"total_price"`
	MedalReward int64  `json:"medal_reward"`
	Timestamp   int64  `json:"timestamp"`
}

// CompensationFailedPayloadV1 carries everything an operator needs for
// manual reconciliation
type CompensationFailedPayloadV1 struct {
	UserID     string `json:"user_id"`
	GachaID    string `json:"gacha_id"`
	ChargeID   string `json:"charge_id"`
	FailedStep string `json:"failed_step"`
	Cause      string `json:"cause"`
	Timestamp  int64  `json:"timestamp"`
}

// NewDrawCompletedEvent creates a new draw completed event with type-safe payload
func NewDrawCompletedEvent(userID, gachaID string, drawCount int, totalPrice, medalReward int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DrawCompleted,
		Payload: DrawCompletedPayloadV1{
			UserID:      userID,
			GachaID:     gachaID,
			DrawCount:   drawCount,
			TotalPrice:  totalPrice,
			MedalReward: medalReward,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewCompensationFailedEvent creates a new compensation failure alert
func NewCompensationFailedEvent(userID, gachaID, chargeID, failedStep string, cause error) Event {
	causeMsg := ""
	if cause != nil {
		causeMsg = cause.Error()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    DrawCompensationFailed,
		Payload: CompensationFailedPayloadV1{
			UserID:     userID,
			GachaID:    gachaID,
			ChargeID:   chargeID,
			FailedStep: failedStep,
			Cause:      causeMsg,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// LedgerDiscrepancyPayloadV1 is the typed payload for balances whose stored
// value disagrees with the replayed transaction log
type LedgerDiscrepancyPayloadV1 struct {
	UserID    string `json:"user_id"`
	Scope     string `json:"scope"`
	Expected  int64  `json:"expected"`
	Actual    int64  `json:"actual"`
	Delta     int64  `json:"delta"`
	Timestamp int64  `json:"timestamp"`
}

// NewLedgerDiscrepancyEvent creates a new ledger discrepancy alert
func NewLedgerDiscrepancyEvent(userID, scope string, expected, actual, delta int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LedgerDiscrepancyFound,
		Payload: LedgerDiscrepancyPayloadV1{
			UserID:    userID,
			Scope:     scope,
			Expected:  expected,
			Actual:    actual,
			Delta:     delta,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers execute synchronously; a worker pool can be slotted in here
	// if alert fan-out ever grows.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
