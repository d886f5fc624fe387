// Package config loads and validates ServicePi Core configuration.
//
// Configuration is layered: hardcoded defaults, then an optional YAML
// file, then environment variable overrides. The result is a single
// immutable Config struct produced once at startup.
//
// A missing config file is not an error — the service runs on defaults,
// which is the expected mode for demo deployments.
package config
