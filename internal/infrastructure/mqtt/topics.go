package mqtt

import "fmt"

// Topic prefixes for the ServicePi broker namespace.
//
// Scheme: servicepi/{category}/{id}/{aspect}
const (
	// TopicPrefix is the base for all ServicePi topics.
	TopicPrefix = "servicepi"

	// TopicPrefixSensors is the base for sensor telemetry topics.
	TopicPrefixSensors = "servicepi/sensors"

	// TopicPrefixDevices is the base for device status topics.
	TopicPrefixDevices = "servicepi/devices"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "servicepi/system"
)

// Topics provides builders for ServicePi MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// SensorReading returns the topic a field device publishes readings on.
//
// Example: servicepi/sensors/temperature_sensor/reading
func (Topics) SensorReading(sensorType string) string {
	return fmt.Sprintf("%s/%s/reading", TopicPrefixSensors, sensorType)
}

// DeviceStatus returns the topic Core publishes device state changes on.
//
// Example: servicepi/devices/temperature_sensor/status
func (Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixDevices, deviceID)
}

// SystemStatus returns the service lifecycle topic.
//
// Example: servicepi/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllSensorReadings returns a pattern matching readings from any sensor.
//
// Pattern: servicepi/sensors/+/reading
func (Topics) AllSensorReadings() string {
	return fmt.Sprintf("%s/+/reading", TopicPrefixSensors)
}
