package pipeline

import "errors"

// Stage error taxonomy. Stage errors are never swallowed: they halt the
// current run and surface through the scheduler log and the CLI exit code.
// Retries happen only via the next scheduled tick or a manual re-invocation.
var (
	// ErrSourceUnavailable means the external grid source could not supply
	// any data for the requested cycle.
	ErrSourceUnavailable = errors.New("grid source unavailable for requested cycle")

	// ErrNoDataFound means the store holds no samples for the requested
	// cycle; aggregation cannot proceed.
	ErrNoDataFound = errors.New("no forecast samples found for requested cycle")

	// ErrWriteFailure means the store rejected a write.
	ErrWriteFailure = errors.New("forecast store write failed")

	// ErrStaleConfiguration means the requested date or cycle is outside
	// the configured set; rejected before any I/O.
	ErrStaleConfiguration = errors.New("requested cycle is not a valid synoptic cycle")
)
