package telemetry

import "errors"

// Domain errors for store operations.
// Use errors.Is() to check for these in calling code.
var (
	// ErrDeviceNotFound is returned for device identifiers outside the
	// fixed set registered at startup. Client requests never create
	// new identifiers.
	ErrDeviceNotFound = errors.New("telemetry: device not found")

	// ErrNoData is returned when a nil or empty reading/update is given
	// to a mutating operation.
	ErrNoData = errors.New("telemetry: no data provided")
)
