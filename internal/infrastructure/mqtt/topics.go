package mqtt

import "fmt"

// Topic prefixes for the Home Control Hub MQTT namespace.
//
// Device traffic uses the scheme: home/devices/{deviceId}/{class}/{subClass?}
// This matches the topic layout baked into the device firmware, so any change
// here is a breaking wire-contract change.
const (
	// TopicPrefixDevices is the base for all per-device topics.
	TopicPrefixDevices = "home/devices"

	// TopicPrefixSystem is the base for hub system topics.
	TopicPrefixSystem = "home/system"
)

// Topics provides builders for Home Control Hub MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.DeviceCommand("lamp-01", "setLed")
//	// Returns: "home/devices/lamp-01/command/setLed"
type Topics struct{}

// =============================================================================
// Device Topics
// =============================================================================

// DeviceStatus returns the topic a device publishes status reports to.
//
// Example: home/devices/lamp-01/status
func (Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixDevices, deviceID)
}

// DeviceTelemetry returns the topic a device publishes telemetry readings to.
//
// Example: home/devices/sensor-kitchen/telemetry
func (Topics) DeviceTelemetry(deviceID string) string {
	return fmt.Sprintf("%s/%s/telemetry", TopicPrefixDevices, deviceID)
}

// DeviceFirmwareVersion returns the topic a device reports its firmware version on.
//
// Example: home/devices/sensor-kitchen/telemetry/firmwareVersion
func (Topics) DeviceFirmwareVersion(deviceID string) string {
	return fmt.Sprintf("%s/%s/telemetry/firmwareVersion", TopicPrefixDevices, deviceID)
}

// DeviceCommand returns the topic the hub publishes commands to.
// The device firmware subscribes to its own command topics.
//
// Example: home/devices/lamp-01/command/setLed
func (Topics) DeviceCommand(deviceID, commandName string) string {
	return fmt.Sprintf("%s/%s/command/%s", TopicPrefixDevices, deviceID, commandName)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the hub status topic (online/offline, LWT).
//
// Example: home/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllDeviceStatus returns a pattern matching all device status reports.
//
// Pattern: home/devices/+/status
func (Topics) AllDeviceStatus() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixDevices)
}

// AllDeviceTelemetry returns a pattern matching all device telemetry,
// including sub-classed telemetry such as firmwareVersion.
//
// Pattern: home/devices/+/telemetry/#
func (Topics) AllDeviceTelemetry() string {
	return fmt.Sprintf("%s/+/telemetry/#", TopicPrefixDevices)
}

// AllDeviceTopics returns a pattern matching all device traffic.
// Use with caution - this also receives the hub's own command publishes.
//
// Pattern: home/devices/#
func (Topics) AllDeviceTopics() string {
	return fmt.Sprintf("%s/#", TopicPrefixDevices)
}
