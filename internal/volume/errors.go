package volume

import "errors"

// Domain-specific errors for volume operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrBindingUnavailable is returned when the platform volume binding is
	// missing entirely (e.g. no mixer utility on the PATH). This is fatal at
	// process start: the service's sole purpose cannot be met at all.
	ErrBindingUnavailable = errors.New("volume: platform audio binding unavailable")

	// ErrAudioUnavailable is returned when the binding is present but the
	// default output device could not be opened or probed. Non-fatal: the
	// controller degrades to cache-only mode.
	ErrAudioUnavailable = errors.New("volume: default output device unavailable")

	// ErrCallFailed is returned when a get/set call against an already
	// opened endpoint fails (device unplugged, access revoked mid-session).
	// Non-fatal and per-operation; the controller does not reinitialise.
	ErrCallFailed = errors.New("volume: audio endpoint call failed")

	// ErrNotInitialized is returned by SetVolume when the controller is in
	// degraded mode (no endpoint handle).
	ErrNotInitialized = errors.New("volume: audio endpoint not initialised")
)
