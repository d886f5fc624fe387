// Package peer probes the health endpoint of the companion backend
// service over HTTP.
//
// The probe is deliberately simple: one GET against the configured
// health URL with a hard timeout, reporting reachability, HTTP status,
// and round-trip latency. It carries no retry logic; callers decide
// what an unhealthy or unreachable peer means for them.
package peer
