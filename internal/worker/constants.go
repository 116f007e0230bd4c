package worker

import "time"

// Integrity sweep configuration
const (
	// DefaultSweepInterval is how often the ledger integrity check runs
	DefaultSweepInterval = 6 * time.Hour
)

// Log messages for the integrity worker
const (
	LogMsgIntegritySweepScheduled = "Integrity sweep scheduled"
	LogMsgIntegritySweepStarting  = "Integrity sweep starting"
	LogMsgIntegritySweepComplete  = "Integrity sweep complete"
	LogMsgIntegritySweepFailed    = "Integrity sweep failed"
	LogMsgIntegrityDiscrepancy    = "Ledger discrepancy detected"
	LogMsgIntegrityAlertFailed    = "Failed to publish ledger discrepancy alert"
	LogMsgIntegrityShuttingDown   = "Shutting down integrity worker"
	LogMsgIntegrityShutdownDone   = "Integrity worker shutdown complete"
	LogMsgIntegrityShutdownStuck  = "Integrity worker shutdown timeout"
)
