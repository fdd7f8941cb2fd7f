// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Callers match them with errors.Is; the wrapping error carries
// the underlying cause.
var (
	// Capture control errors
	ErrInvalidInterface    = errors.New("netsniff: invalid interface")
	ErrCaptureStartFailure = errors.New("netsniff: capture start failed")
	ErrWorkerJoinTimeout   = errors.New("netsniff: capture worker did not stop in time")

	// Packet decoding errors
	ErrDecodeFailure = errors.New("netsniff: frame decode failed")

	// Configuration errors
	ErrConfigInvalid = errors.New("netsniff: invalid configuration")

	// Export errors
	ErrExporterClosed = errors.New("netsniff: exporter closed")
)
