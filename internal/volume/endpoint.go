package volume

import (
	"errors"
	"fmt"
	"math"
	"os/exec"

	sysmixer "github.com/itchyny/volume-go"
)

// Endpoint is a thin capability over the host's default audio output device.
//
// Levels are linear scalars in [0.0, 1.0], independent of decibel curve.
// Implementations perform no retries; failures propagate to the Controller,
// which owns the degradation policy.
type Endpoint interface {
	// Volume returns the current master volume.
	Volume() (float64, error)

	// SetVolume requests the device adopt the given scalar volume.
	SetVolume(level float64) error
}

// systemEndpoint drives the OS master volume through volume-go, which wraps
// the platform mixer (amixer/pactl on Linux, osascript on macOS, the Core
// Audio APIs on Windows). The library works in integer percent; levels are
// converted at this boundary.
type systemEndpoint struct{}

// OpenDefaultOutput locates the system's default audio render device and
// verifies volume control works with an initial read.
//
// Returns:
//   - Endpoint: Working endpoint for the default output device
//   - error: ErrBindingUnavailable if the platform binding is missing
//     entirely, ErrAudioUnavailable if the device probe failed
func OpenDefaultOutput() (Endpoint, error) {
	ep := systemEndpoint{}
	if _, err := ep.Volume(); err != nil {
		// A missing mixer binary means the platform binding is absent, not
		// that the device is misbehaving - the two degrade differently.
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrBindingUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	return ep, nil
}

// Volume returns the current master volume as a scalar in [0.0, 1.0].
func (systemEndpoint) Volume() (float64, error) {
	percent, err := sysmixer.GetVolume()
	if err != nil {
		return 0, fmt.Errorf("reading master volume: %w", err)
	}
	return float64(percent) / 100.0, nil
}

// SetVolume sets the master volume from a scalar in [0.0, 1.0].
func (systemEndpoint) SetVolume(level float64) error {
	percent := int(math.Round(level * 100.0))
	if err := sysmixer.SetVolume(percent); err != nil {
		return fmt.Errorf("setting master volume: %w", err)
	}
	return nil
}
