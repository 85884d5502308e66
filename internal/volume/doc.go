// Package volume owns the system master volume: a capability over the
// default audio output device and the mutex-serialised controller that all
// HTTP handlers share.
//
// The controller has exactly two operating modes, fixed at startup:
//
//   - initialised: the endpoint opened and responded; reads and writes go to
//     the device, with the last observed level cached
//   - degraded: the endpoint could not be opened; reads return the cached
//     level (0.5 unless configured otherwise), writes are rejected
//
// A device failure after successful initialisation fails only the operation
// that hit it. The controller never attempts to reopen the endpoint; an
// operator restarting the process is the recovery path, made visible through
// the health endpoint's audio_initialized flag.
//
// The package also defines the volume change history repository used for the
// audit trail behind GET /volume/history.
package volume
