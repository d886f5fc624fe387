// Package mqtt wraps paho.mqtt.golang for ServicePi Core's optional
// broker link.
//
// When enabled, the client subscribes to sensor reading topics so field
// devices can publish telemetry without speaking HTTP, and announces
// its own lifecycle on the system status topic (with a Last Will for
// crash detection). Subscriptions are tracked and restored after
// reconnects; handlers run with panic recovery.
//
// The rest of the service never talks to paho directly. Everything goes
// through Client, which stays usable (returning ErrNotConnected) when
// the broker is away.
package mqtt
