// Package logging provides structured logging for formdrop.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the client and server. It provides both general
// logging functions and specialized functions for submission and upload events.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (request bodies, retry decisions)
//   - Info: Normal operations (submissions, uploads, connections)
//   - Warn: Non-fatal issues (failed submissions, retries)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Upload stored",
//	    zap.String("correlation_id", id),
//	    zap.String("file", name),
//	    zap.Int64("size", size),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Submission Logging:
//
//	logging.LogSubmission(correlationID, endpoint, fileCount)
//	logging.LogSubmissionResult(correlationID, "complete", nil)
//	logging.LogSubmissionResult(correlationID, "failed", err)
//
// Server-side Logging:
//
//	logging.LogUploadReceived(remoteAddr, correlationID, name, size)
//	logging.LogConnection(remoteAddr, "websocket_subscribed")
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// CLI commands that want silent-by-default behavior should use
// InitializeFromEnv, which only enables output when FORMDROP_LOG_LEVEL
// is set.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
