package gacha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/draw"
	"github.com/osse101/MedalGacha_Go/internal/event"
	"github.com/osse101/MedalGacha_Go/internal/idempotency"
	"github.com/osse101/MedalGacha_Go/internal/ledger"
	"github.com/osse101/MedalGacha_Go/internal/logger"
	"github.com/osse101/MedalGacha_Go/internal/metrics"
	"github.com/osse101/MedalGacha_Go/internal/payment"
	"github.com/osse101/MedalGacha_Go/internal/repository"
	"github.com/osse101/MedalGacha_Go/internal/reward"
)

// Service defines the interface for draw coordination
type Service interface {
	ExecuteDraw(ctx context.Context, req DrawRequest) (*domain.DrawOutcome, error)
	GetGacha(ctx context.Context, id uuid.UUID) (*domain.Gacha, error)
}

// DrawRequest is one user-initiated draw. The idempotency key is
// caller-supplied so a redelivered request cannot charge twice.
type DrawRequest struct {
	UserID         string    `json:"user_id" validate:"required"`
	GachaID        uuid.UUID `json:"gacha_id" validate:"required"`
	DrawCount      int       `json:"draw_count" validate:"min=1,max=10"`
	IdempotencyKey string    `json:"idempotency_key" validate:"required"`
}

type service struct {
	repo     repository.Gacha
	engine   *draw.Engine
	payment  payment.Client
	reward   reward.Client
	ledger   ledger.Service
	idem     idempotency.Store
	eventBus event.Bus
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a new draw coordination service
func NewService(repo repository.Gacha, engine *draw.Engine, paymentClient payment.Client, rewardClient reward.Client, ledgerSvc ledger.Service, idem idempotency.Store, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		engine:   engine,
		payment:  paymentClient,
		reward:   rewardClient,
		ledger:   ledgerSvc,
		idem:     idem,
		eventBus: eventBus,
		validate: validator.New(),
		now:      time.Now,
	}
}

// GetGacha returns the gacha with the given ID
func (s *service) GetGacha(ctx context.Context, id uuid.UUID) (*domain.Gacha, error) {
	return s.repo.GetGacha(ctx, id)
}

// pendingDraw tracks the side effects committed so far for one request, so
// compensation knows exactly what to undo. Lives only for the duration of
// one ExecuteDraw call.
type pendingDraw struct {
	userID      string
	gacha       *domain.Gacha
	totalPrice  int64
	totalReward int64
	chargeID    string
	resultIDs   []uuid.UUID
	itemCounts  map[uuid.UUID]int
	grantID     string
	creditScope *string
	credited    int64
}

// ExecuteDraw runs one draw request through the linear pipeline:
// validate, charge, draw, persist, reward, credit. Any failure after the
// charge succeeds triggers compensation; the returned error is always a
// *domain.DrawError telling the caller what happened to their money.
func (s *service) ExecuteDraw(ctx context.Context, req DrawRequest) (*domain.DrawOutcome, error) {
	start := s.now()
	log := logger.FromContext(ctx)
	log.Info(LogMsgDrawRequested,
		"user_id", req.UserID,
		"gacha_id", req.GachaID,
		"draw_count", req.DrawCount)

	outcome, err := s.executeDraw(ctx, req, start)
	if err != nil {
		var drawErr *domain.DrawError
		if errors.As(err, &drawErr) {
			metrics.DrawFailures.WithLabelValues(drawErr.Stage).Inc()
			log.Warn(LogMsgDrawFailed,
				"user_id", req.UserID,
				"gacha_id", req.GachaID,
				"stage", drawErr.Stage,
				"class", string(drawErr.Class),
				"error", err)
		}
		return nil, err
	}

	metrics.DrawsExecuted.Add(float64(req.DrawCount))
	metrics.DrawDuration.Observe(outcome.ExecutionTime.Seconds())
	log.Info(LogMsgDrawCompleted,
		"user_id", req.UserID,
		"gacha_id", req.GachaID,
		"draw_count", req.DrawCount,
		"duration_ms", outcome.ExecutionTime.Milliseconds())
	return outcome, nil
}

func (s *service) executeDraw(ctx context.Context, req DrawRequest, start time.Time) (*domain.DrawOutcome, error) {
	// VALIDATING
	g, items, history, err := s.validateRequest(ctx, req)
	if err != nil {
		return nil, domain.NewDrawError(StageValidating, domain.DrawNotCharged, err)
	}

	p := &pendingDraw{
		userID:      req.UserID,
		gacha:       g,
		totalPrice:  g.Price * int64(req.DrawCount),
		totalReward: g.MedalReward * int64(req.DrawCount),
	}

	// CHARGING
	receipt, err := s.charge(ctx, req, p.totalPrice)
	if err != nil {
		return nil, domain.NewDrawError(StageCharging, domain.DrawNotCharged,
			fmt.Errorf("%s: %w", ErrContextChargeFailed, err))
	}
	p.chargeID = receipt.ChargeID

	// Money has been captured: the saga now runs to DONE or FAILED even if
	// the caller goes away.
	ctx = context.WithoutCancel(ctx)

	// DRAWING
	selected, err := s.engine.ExecuteDraws(items, req.DrawCount, history)
	if err != nil {
		return nil, s.failPostCharge(ctx, p, StageDrawing, err)
	}

	// PERSISTING
	results, err := s.persistResults(ctx, p, req, selected)
	if err != nil {
		return nil, s.failPostCharge(ctx, p, StagePersisting, err)
	}

	// REWARDING
	grantItems := make([]reward.Item, len(selected))
	for i, item := range selected {
		grantItems[i] = reward.Item{
			ItemID:   item.ID.String(),
			ItemName: item.Name,
			Rarity:   item.Rarity.String(),
		}
	}
	grantID, err := s.reward.Grant(ctx, req.UserID, grantItems)
	if err != nil {
		return nil, s.failPostCharge(ctx, p, StageRewarding, err)
	}
	p.grantID = grantID

	// CREDITING
	scope := &g.CreatorID
	ref := &domain.MedalTxRef{ID: p.chargeID, Type: domain.RefTypeCharge}
	if _, err := s.ledger.Credit(ctx, req.UserID, scope, p.totalReward, domain.MedalTxRewardGrant, ref); err != nil {
		return nil, s.failPostCharge(ctx, p, StageCrediting,
			fmt.Errorf("%w: %v", domain.ErrLedgerCreditFailed, err))
	}
	p.creditScope = scope
	p.credited = p.totalReward

	// DONE
	rows, err := s.repo.IncrementGachaTotalDraws(ctx, req.GachaID, req.DrawCount)
	if err != nil {
		return nil, s.failPostCharge(ctx, p, StageDone, err)
	}
	if rows == 0 {
		// A concurrent batch consumed the remaining draw budget after our
		// validation read.
		return nil, s.failPostCharge(ctx, p, StageDone, domain.ErrMaxDrawsReached)
	}

	evt := event.NewDrawCompletedEvent(req.UserID, req.GachaID.String(), req.DrawCount, p.totalPrice, p.totalReward)
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "error", err)
	}

	return &domain.DrawOutcome{
		Results:       results,
		ExecutionTime: s.now().Sub(start),
	}, nil
}

// validateRequest performs all side-effect-free checks and loads everything
// the rest of the pipeline needs. Failing before the charge means there is
// nothing to compensate.
func (s *service) validateRequest(ctx context.Context, req DrawRequest) (*domain.Gacha, []domain.GachaItem, []domain.Rarity, error) {
	if err := s.validate.Struct(req); err != nil {
		if req.DrawCount < domain.MinDrawCount || req.DrawCount > domain.MaxDrawCount {
			return nil, nil, nil, fmt.Errorf("%w: draw count must be between %d and %d", domain.ErrInvalidDrawCount, domain.MinDrawCount, domain.MaxDrawCount)
		}
		return nil, nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	g, err := s.repo.GetGacha(ctx, req.GachaID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", ErrContextGachaLookupFailed, err)
	}
	if g == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrGachaNotFound, req.GachaID)
	}
	if err := g.DrawableAt(s.now(), req.DrawCount); err != nil {
		return nil, nil, nil, err
	}

	items, err := s.repo.GetGachaItems(ctx, req.GachaID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", ErrContextItemsLoadFailed, err)
	}
	if len(draw.FilterAvailable(items)) == 0 {
		return nil, nil, nil, domain.ErrNoAvailableItemsForDraw
	}

	history, err := s.repo.GetRecentRarities(ctx, req.UserID, req.GachaID, domain.PityHistoryLimit)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", ErrContextHistoryLoadFailed, err)
	}

	return g, items, history, nil
}

// charge captures payment through the idempotency store: a redelivered
// request with the same key replays the cached receipt instead of charging
// again.
func (s *service) charge(ctx context.Context, req DrawRequest, total int64) (*domain.ChargeReceipt, error) {
	payload, err := s.idem.CheckAndSet(ctx, req.IdempotencyKey, func(ctx context.Context) ([]byte, error) {
		receipt, err := s.payment.Charge(ctx, req.UserID, total, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		return json.Marshal(receipt)
	})
	if err != nil {
		return nil, err
	}

	var receipt domain.ChargeReceipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode cached charge receipt: %w", err)
	}
	return &receipt, nil
}

// persistResults writes the draw rows and the per-item stock increments in
// one transaction. The stock increment is cap-guarded; zero rows affected
// means a concurrent draw consumed the remaining stock and the whole batch
// aborts.
func (s *service) persistResults(ctx context.Context, p *pendingDraw, req DrawRequest, selected []domain.GachaItem) ([]domain.DrawResult, error) {
	tx, err := s.repo.BeginDrawTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPersistFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := s.now()
	results := make([]domain.DrawResult, len(selected))
	counts := make(map[uuid.UUID]int, len(selected))
	for i, item := range selected {
		results[i] = domain.DrawResult{
			ID:          uuid.New(),
			UserID:      req.UserID,
			GachaID:     req.GachaID,
			ItemID:      item.ID,
			Price:       p.gacha.Price,
			MedalReward: p.gacha.MedalReward,
			CreatedAt:   now,
		}
		counts[item.ID]++
	}

	if err := tx.InsertDrawResults(ctx, results); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPersistFailed, err)
	}

	for itemID, n := range counts {
		rows, err := tx.IncrementItemCount(ctx, itemID, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextPersistFailed, err)
		}
		if rows == 0 {
			return nil, fmt.Errorf("%w: item %s", domain.ErrItemStockConflict, itemID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPersistFailed, err)
	}

	p.resultIDs = make([]uuid.UUID, len(results))
	for i, r := range results {
		p.resultIDs[i] = r.ID
	}
	p.itemCounts = counts
	return results, nil
}

// failPostCharge compensates and classifies the failure for the caller.
func (s *service) failPostCharge(ctx context.Context, p *pendingDraw, stage string, cause error) error {
	if err := s.compensate(ctx, p, stage, cause); err != nil {
		return err
	}
	return domain.NewDrawError(stage, domain.DrawChargedAndRefunded, cause)
}

// compensate undoes committed side effects in reverse order: reverse the
// medal credit, refund the charge, revoke granted rewards, remove persisted
// rows. Revoke failures are logged but do not fail compensation; a failed
// credit reversal, refund, or row removal does,
// and that is surfaced loudly: error log, metric, and an alert event that
// goes through the resilient publisher so it is never silently dropped.
func (s *service) compensate(ctx context.Context, p *pendingDraw, stage string, cause error) error {
	log := logger.FromContext(ctx)
	log.Warn(LogMsgCompensating,
		"user_id", p.userID,
		"gacha_id", p.gacha.ID,
		"charge_id", p.chargeID,
		"failed_stage", stage,
		"cause", cause)
	metrics.Compensations.Inc()

	var compErr error

	if p.credited > 0 {
		ref := &domain.MedalTxRef{ID: p.chargeID, Type: domain.RefTypeCharge}
		if _, err := s.ledger.Debit(ctx, p.userID, p.creditScope, p.credited, domain.MedalTxRefundAdjustment, ref); err != nil {
			compErr = errors.Join(compErr, fmt.Errorf("%s: %w", ErrContextCreditReversalFailed, err))
		}
	}

	if p.chargeID != "" {
		if err := s.payment.Refund(ctx, p.chargeID); err != nil {
			compErr = errors.Join(compErr, fmt.Errorf("%s: %w", ErrContextRefundFailed, err))
		}
	}

	if p.grantID != "" {
		if err := s.reward.Revoke(ctx, p.grantID); err != nil {
			log.Error(LogMsgRevokeFailed, "grant_id", p.grantID, "error", err)
		}
	}

	if len(p.resultIDs) > 0 {
		if err := s.removePersisted(ctx, p); err != nil {
			compErr = errors.Join(compErr, err)
		}
	}

	if compErr != nil {
		metrics.CompensationFailures.Inc()
		log.Error(LogMsgCompensationFailed,
			"user_id", p.userID,
			"gacha_id", p.gacha.ID,
			"charge_id", p.chargeID,
			"failed_stage", stage,
			"error", compErr)

		evt := event.NewCompensationFailedEvent(p.userID, p.gacha.ID.String(), p.chargeID, stage, compErr)
		if err := s.eventBus.Publish(ctx, evt); err != nil {
			log.Error(LogMsgEventPublishFailed, "error", err)
		}

		return domain.NewDrawError(StageCompensating, domain.DrawContactSupport,
			fmt.Errorf("%w: %v", domain.ErrCompensationFailed, compErr))
	}

	log.Info(LogMsgCompensationComplete,
		"user_id", p.userID,
		"charge_id", p.chargeID,
		"failed_stage", stage)
	return nil
}

// removePersisted deletes the batch's rows and reverses its stock
// increments, all-or-nothing.
func (s *service) removePersisted(ctx context.Context, p *pendingDraw) error {
	tx, err := s.repo.BeginDrawTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin compensation tx: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.DeleteDrawResults(ctx, p.resultIDs); err != nil {
		return fmt.Errorf("failed to delete draw results: %w", err)
	}
	for itemID, n := range p.itemCounts {
		if err := tx.DecrementItemCount(ctx, itemID, n); err != nil {
			return fmt.Errorf("failed to decrement item count: %w", err)
		}
	}
	return tx.Commit(ctx)
}
