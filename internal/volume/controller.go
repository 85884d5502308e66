package volume

import (
	"errors"
	"fmt"
	"sync"
)

// Default cached level before the first successful read from the endpoint.
const defaultCachedLevel = 0.5

// OpenFunc opens an audio endpoint. Injectable for testing; the zero value
// of ControllerConfig uses OpenDefaultOutput.
type OpenFunc func() (Endpoint, error)

// Logger is the minimal logging interface the controller needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// DefaultLevel is the cached volume used before the first successful
	// endpoint read, and for the process lifetime in degraded mode.
	// Values outside [0.0, 1.0] fall back to 0.5.
	DefaultLevel float64

	// Open opens the audio endpoint during Initialize.
	// Defaults to OpenDefaultOutput.
	Open OpenFunc

	// Logger receives degradation and call-failure events. Optional.
	Logger Logger
}

// Controller owns the endpoint handle and the last-known-good volume.
//
// The controller has exactly two modes, decided once at Initialize and never
// transitioned afterward:
//
//   - initialised: reads and writes go to the endpoint, the cache tracks the
//     last observed level
//   - degraded: no endpoint handle; reads return the cached value, writes
//     are rejected
//
// Thread Safety: one mutex serialises every cache access and endpoint call.
// The native mixer APIs are not guaranteed to tolerate concurrent callers,
// and the calls are microseconds-to-milliseconds, so a single lock held for
// the duration of each call is sufficient. Concurrent SetVolume calls are
// last-writer-wins.
type Controller struct {
	mu       sync.Mutex
	endpoint Endpoint // nil in degraded mode, set at most once
	cached   float64  // always within [0.0, 1.0]

	open   OpenFunc
	logger Logger
}

// NewController creates a Controller in its pre-initialisation state.
// Call Initialize once before serving requests.
func NewController(cfg ControllerConfig) *Controller {
	level := cfg.DefaultLevel
	if level < 0.0 || level > 1.0 {
		level = defaultCachedLevel
	}

	open := cfg.Open
	if open == nil {
		open = OpenDefaultOutput
	}

	return &Controller{
		cached: level,
		open:   open,
		logger: cfg.Logger,
	}
}

// Initialize attempts to open the default output device and seed the cache
// with the device's current volume.
//
// Failure handling follows the startup taxonomy:
//   - ErrBindingUnavailable is returned to the caller, who should treat it
//     as fatal (the platform cannot control volume at all)
//   - any other failure leaves the controller in degraded mode and returns
//     nil; the service still starts and serves cached reads
//
// Initialize is meant to be called exactly once at process start. The
// endpoint handle is never replaced: a later device failure does not
// re-enter this path.
func (c *Controller) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep, err := c.open()
	if err != nil {
		if errors.Is(err, ErrBindingUnavailable) {
			return err
		}
		c.warn("audio endpoint unavailable, running in degraded mode", "error", err)
		return nil
	}

	level, err := ep.Volume()
	if err != nil {
		// Opened but unreadable: treat the same as a failed open rather
		// than keeping a handle that has already demonstrated it is broken.
		c.warn("audio endpoint opened but initial read failed, running in degraded mode", "error", err)
		return nil
	}

	c.endpoint = ep
	c.cached = clamp(level)
	return nil
}

// SetVolume sets the master volume.
//
// The level is clamped to [0.0, 1.0] before reaching the device. Callers
// that need strict range validation (the HTTP layer does) must perform it
// themselves; the clamp here guards programmatic callers against driving
// the device out of range.
//
// Returns:
//   - error: ErrNotInitialized in degraded mode; ErrCallFailed (wrapped)
//     when the device rejects the write. The cache is only updated on
//     success, so a failed write never corrupts the last-known-good value.
func (c *Controller) SetVolume(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endpoint == nil {
		return ErrNotInitialized
	}

	level = clamp(level)
	if err := c.endpoint.SetVolume(level); err != nil {
		c.warn("failed to set volume", "level", level, "error", err)
		return fmt.Errorf("%w: %v", ErrCallFailed, err)
	}

	c.cached = level
	return nil
}

// Volume returns the current master volume.
//
// In degraded mode this is the cached value. Otherwise the endpoint is read
// fresh and the cache updated; a read failure is logged and the stale cached
// value returned. Read failures are never surfaced to callers - a possibly
// stale level is still a valid answer.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endpoint == nil {
		return c.cached
	}

	level, err := c.endpoint.Volume()
	if err != nil {
		c.debug("volume read failed, returning cached value", "cached", c.cached, "error", err)
		return c.cached
	}

	c.cached = clamp(level)
	return c.cached
}

// Initialized reports whether the endpoint handle is present.
// Used by the health endpoint to expose degraded mode to operators.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint != nil
}

func (c *Controller) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Controller) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// clamp bounds a level to [0.0, 1.0].
func clamp(level float64) float64 {
	if level < 0.0 {
		return 0.0
	}
	if level > 1.0 {
		return 1.0
	}
	return level
}
