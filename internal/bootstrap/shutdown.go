package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/MedalGacha_Go/internal/event"
	"github.com/osse101/MedalGacha_Go/internal/server"
	"github.com/osse101/MedalGacha_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	IntegrityWorker    *worker.IntegrityWorker
	ResilientPublisher *event.ResilientPublisher
	DeadLetter         *event.DeadLetterWriter
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Workers (cancel pending timers, wait for in-flight sweeps)
// 3. Event publisher (flush pending retries so nothing is lost)
// 4. Dead-letter writer (close the file after the publisher drains)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.IntegrityWorker != nil {
		if err := components.IntegrityWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgIntegrityWorkerFailed, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	if err := components.DeadLetter.Close(); err != nil {
		slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
