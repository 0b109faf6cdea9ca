// Package config loads deployment configuration from YAML and timeout
// tunables from environment variables.
package config
