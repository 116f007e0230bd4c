package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/MedalGacha_Go/internal/config"
	"github.com/osse101/MedalGacha_Go/internal/event"
)

// InitializeEventSystem creates and configures the event bus and resilient
// publisher. It creates the dead-letter directory, opens the dead-letter
// writer, and wires the publisher with exponential backoff retry logic.
// Returns the bus, publisher, dead-letter writer, and any error encountered.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, *event.DeadLetterWriter, error) {
	eventBus := event.NewMemoryBus()

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetter, err)
	}

	// Zero config values fall back to the publisher defaults.
	publisher := event.NewResilientPublisher(eventBus, deadLetter, event.ResilientConfig{})

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", event.RetryMaxAttempts,
		"deadletter_path", cfg.DeadLetterPath)

	return eventBus, publisher, deadLetter, nil
}
