// Package logging provides a minimal logging facade for the veil library.
//
// This package defines a Logger interface that wraps a subset of the
// standard library's log/slog functionality. The interface is intentionally
// small to allow applications to provide custom implementations for testing,
// redaction, or integration with existing logging systems.
//
// # Default Behavior
//
// Library code never logs by default: decode paths fall back to Nop() when
// no logger was configured, because log output that differs between the two
// logical paths would itself be a distinguishing signal. The one event worth
// surfacing, a payload integrity mismatch, goes through Warn when a logger
// is supplied.
//
// # Redaction
//
//	logger.Info(ctx, "key derived", logging.Redacted("key_bytes"))
//	// Logs: key_bytes="[redacted]"
//
// # Security Considerations
//
//   - Never log keys, passwords, execution signatures, or derived material.
//   - Never log which logical path an operation resolved to.
//   - Use logging.Redacted() to mark intentionally removed values.
package logging
