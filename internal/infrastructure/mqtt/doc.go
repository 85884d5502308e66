// Package mqtt provides an optional MQTT broker connection for volumed.
//
// When enabled, volumed publishes its master volume level as a retained
// message on volumed/volume/state after every successful change, and
// maintains an online/offline status on volumed/system/status with a Last
// Will and Testament for crash detection. This lets home-automation systems
// follow the host's volume without polling the HTTP API.
//
// The client is publish-only. Volume commands arrive exclusively via the
// HTTP API; accepting them over MQTT as well would create two unordered
// write paths into the single controller.
package mqtt
