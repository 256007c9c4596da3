package pipeline

import "errors"

// Sentinel errors for the two fatal failure classes. Everything else the
// pipeline hits (a failed scoring batch, a missing supplementary document)
// degrades the result instead of aborting the run.
var (
	// ErrDataUnavailable means the fund table could not be loaded. The
	// pipeline cannot filter or score without it.
	ErrDataUnavailable = errors.New("fund data unavailable")

	// ErrConfiguration means an invalid knob (batch size, surviving
	// fraction, worker count) was rejected before any work started.
	ErrConfiguration = errors.New("invalid configuration")
)
