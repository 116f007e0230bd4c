package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// ResilientPublisher wraps an Event Bus to add retry logic and dead letter
// queuing. Alert events (compensation failures) must never be silently
// dropped, so exhausted retries land in the dead-letter file for a human.
type ResilientPublisher struct {
	inner      Bus
	deadLetter *DeadLetterWriter
	config     ResilientConfig
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, deadLetter *DeadLetterWriter, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryInitialDelaySeconds * time.Second
	}
	return &ResilientPublisher{
		inner:      inner,
		deadLetter: deadLetter,
		config:     config,
	}
}

// Publish attempts to publish an event. If it fails, it initiates a background
// retry loop and returns nil: the caller is decoupled from the retry mechanism.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event, err)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	defer p.wg.Done()

	// Detached context: the original request context is likely cancelled
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, attempt))

		err := p.inner.Publish(ctx, event)
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", attempt)
			return
		}
		lastErr = err

		log.Warn(LogMsgEventRetryFailed,
			"event_type", event.Type,
			"attempt", attempt,
			"error", err)
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", event.Type)
	if p.deadLetter != nil {
		if err := p.deadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			log.Error(LogMsgDeadLetterFailed, "error", err)
		}
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// Shutdown waits for in-flight retry loops to finish
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
