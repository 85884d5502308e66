package mqtt

import "fmt"

// Topic prefixes for volumed's MQTT surface.
//
// volumed publishes exactly two topics: a retained volume state topic and a
// retained system status topic (online/offline/LWT). It subscribes to
// nothing.
const (
	// TopicPrefix is the base for all volumed topics.
	TopicPrefix = "volumed"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "volumed/system"
)

// Topics provides builders for volumed MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// VolumeState returns the retained topic carrying the current master volume.
//
// Example payload: {"level":0.35,"source":"api","timestamp":"2026-03-15T10:00:00Z"}
//
// Topic: volumed/volume/state
func (Topics) VolumeState() string {
	return fmt.Sprintf("%s/volume/state", TopicPrefix)
}

// SystemStatus returns the system status topic (online/offline, LWT).
//
// Topic: volumed/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
