package telemetry

import "sync"

// DefaultRecentLimit is the maximum number of readings returned by the
// recent-data listing.
const DefaultRecentLimit = 100

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeListener receives notifications after a store mutation commits.
// Callbacks run outside the store lock and must not call back into the
// Store's mutating methods from the same goroutine expecting ordering.
type ChangeListener interface {
	ReadingStored(r Reading)
	DeviceUpdated(id string, s Status)
}

// Store owns the process-wide telemetry state.
//
// The reading sequence grows without bound and is never evicted; the
// device map is fixed at construction and only its records mutate.
// All public methods are thread-safe.
type Store struct {
	mu       sync.RWMutex
	readings []Reading
	devices  map[string]Status

	logger   Logger
	listener ChangeListener
}

// NewStore creates a store pre-seeded with the fixed device set.
func NewStore() *Store {
	return &Store{
		devices: map[string]Status{
			"temperature_sensor": {
				FieldStatus:      StatusOnline,
				FieldLastReading: 22.5,
				FieldUnit:        "°C",
			},
			"humidity_sensor": {
				FieldStatus:      StatusOnline,
				FieldLastReading: 65.2,
				FieldUnit:        "%",
			},
			"motion_sensor": {
				FieldStatus:      StatusOnline,
				FieldLastReading: false,
				FieldUnit:        "boolean",
			},
		},
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// SetChangeListener registers a listener notified after mutations.
// Pass nil to remove the listener.
func (s *Store) SetChangeListener(l ChangeListener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// AppendReading stores a sensor reading and applies its device side
// effect.
//
// If the reading lacks a timestamp field, the current UTC time is
// stamped before storage. If its sensor_type names a registered device,
// that device's last_reading is overwritten with the reading's value
// (nil when absent) and its status set to "online". A sensor_type that
// names no registered device stores the reading with no device side
// effect.
//
// Parameters:
//   - r: The reading as decoded from the client; must be non-empty
//
// Returns:
//   - Reading: A copy of the reading exactly as stored
//   - error: ErrNoData if r is nil or empty
func (s *Store) AppendReading(r Reading) (Reading, error) {
	if len(r) == 0 {
		return nil, ErrNoData
	}

	stored := r.Clone()
	if _, ok := stored[FieldTimestamp]; !ok {
		stored[FieldTimestamp] = Timestamp()
	}

	var (
		deviceID     string
		deviceStatus Status
	)

	s.mu.Lock()
	s.readings = append(s.readings, stored)

	if sensorType, ok := stored[FieldSensorType].(string); ok {
		if device, known := s.devices[sensorType]; known {
			device[FieldLastReading] = stored[FieldValue]
			device[FieldStatus] = StatusOnline
			deviceID = sensorType
			deviceStatus = device.Clone()
		}
	}
	listener := s.listener
	s.mu.Unlock()

	s.logger.Debug("reading stored", "sensor_type", stored[FieldSensorType], "device_updated", deviceID != "")

	if listener != nil {
		result := stored.Clone()
		listener.ReadingStored(result)
		if deviceID != "" {
			listener.DeviceUpdated(deviceID, deviceStatus)
		}
	}

	return stored.Clone(), nil
}

// Readings returns the most recent readings in original insertion order,
// along with the total number of readings ever stored.
//
// Parameters:
//   - limit: Maximum entries to return; non-positive means DefaultRecentLimit
//
// Returns:
//   - []Reading: Up to limit readings, oldest first, as deep copies
//   - int: Total count of stored readings (may exceed len of slice)
func (s *Store) Readings(limit int) ([]Reading, int) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.readings)
	start := 0
	if total > limit {
		start = total - limit
	}

	out := make([]Reading, 0, total-start)
	for _, r := range s.readings[start:] {
		out = append(out, r.Clone())
	}
	return out, total
}

// ReadingCount returns the total number of stored readings.
func (s *Store) ReadingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}

// Devices returns a deep copy of the full device status map.
func (s *Store) Devices() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Status, len(s.devices))
	for id, status := range s.devices {
		out[id] = status.Clone()
	}
	return out
}

// Device returns a copy of one device's status record.
// Returns ErrDeviceNotFound if the identifier is not registered.
func (s *Store) Device(id string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return status.Clone(), nil
}

// MergeDevice applies a shallow field merge to an existing device
// record: supplied keys overwrite, unspecified keys are retained. No
// value validation is performed, so applying the same merge twice
// yields the same final state.
//
// Parameters:
//   - id: Registered device identifier
//   - fields: Fields to overwrite; must be non-empty
//
// Returns:
//   - Status: A copy of the merged record
//   - error: ErrDeviceNotFound for unknown ids, ErrNoData for empty input
func (s *Store) MergeDevice(id string, fields map[string]any) (Status, error) {
	if len(fields) == 0 {
		return nil, ErrNoData
	}

	s.mu.Lock()
	device, ok := s.devices[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrDeviceNotFound
	}
	for k, v := range fields {
		device[k] = deepCopyValue(v)
	}
	merged := device.Clone()
	listener := s.listener
	s.mu.Unlock()

	s.logger.Info("device updated", "device_id", id)

	if listener != nil {
		listener.DeviceUpdated(id, merged.Clone())
	}

	return merged, nil
}

// DeviceCount returns the number of registered devices.
func (s *Store) DeviceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// OnlineDeviceCount returns the number of devices whose status field
// equals "online".
func (s *Store) OnlineDeviceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, device := range s.devices {
		if device[FieldStatus] == StatusOnline {
			count++
		}
	}
	return count
}
