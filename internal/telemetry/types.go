package telemetry

import "time"

// Reading is a single schema-free sensor observation as submitted by a
// client. Beyond the timestamp invariant (see Store.AppendReading) no
// field is required or type-checked; well-behaved producers send at
// least sensor_type and value.
type Reading map[string]any

// Status is the latest known state of one pre-registered device.
// Seeded records carry status, last_reading, and unit; PUT merges may
// introduce arbitrary additional keys.
type Status map[string]any

// Reserved field names understood by the store.
const (
	FieldTimestamp   = "timestamp"
	FieldSensorType  = "sensor_type"
	FieldValue       = "value"
	FieldStatus      = "status"
	FieldLastReading = "last_reading"
	FieldUnit        = "unit"

	// StatusOnline is the status value set whenever a device reports a reading.
	StatusOnline = "online"
)

// TimestampFormat is the wire format for all timestamps: UTC ISO-8601
// with microsecond precision and no zone suffix, e.g.
// "2024-01-15T10:30:00.000000".
const TimestampFormat = "2006-01-02T15:04:05.000000"

// Timestamp returns the current UTC time in the service's wire format.
func Timestamp() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// Clone returns a deep copy of the reading.
func (r Reading) Clone() Reading {
	return Reading(deepCopyMap(r))
}

// Clone returns a deep copy of the status record.
func (s Status) Clone() Status {
	return Status(deepCopyMap(s))
}

// deepCopyMap copies a map and any nested maps/slices it contains.
// Scalar values are shared, which is safe because they are immutable.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}
