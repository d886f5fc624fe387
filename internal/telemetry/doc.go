// Package telemetry holds the in-memory sensor and device state for
// ServicePi Core.
//
// The Store owns two pieces of process-wide state: an append-only
// sequence of schema-free sensor readings and a map of device status
// records keyed by a fixed set of device identifiers seeded at startup.
// Both live for the lifetime of the process and are discarded on exit.
//
// All access goes through Store methods, which serialise mutations
// behind an internal RWMutex and hand out deep copies so callers can
// never mutate shared state.
package telemetry
