package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout and attempt values.
// These values can be customized via environment variables.
type Timeouts struct {
	IPResolveAttempts int           // Attempts to re-query the API for a public address
	IPResolveDelay    time.Duration // Delay between address queries
	SSHPollInterval   time.Duration // Interval between SSH reachability probes
	SSHPollAttempts   int           // Maximum SSH reachability probes
	SettleDelay       time.Duration // Fixed wait after SSH comes up, before validation
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - QUICKSTART_IP_RESOLVE_ATTEMPTS (default: 10)
//   - QUICKSTART_IP_RESOLVE_DELAY (default: 3s)
//   - QUICKSTART_SSH_POLL_INTERVAL (default: 5s)
//   - QUICKSTART_SSH_POLL_ATTEMPTS (default: 30)
//   - QUICKSTART_SETTLE_DELAY (default: 90s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		IPResolveAttempts: parseInt("QUICKSTART_IP_RESOLVE_ATTEMPTS", 10),
		IPResolveDelay:    parseDuration("QUICKSTART_IP_RESOLVE_DELAY", 3*time.Second),
		SSHPollInterval:   parseDuration("QUICKSTART_SSH_POLL_INTERVAL", 5*time.Second),
		SSHPollAttempts:   parseInt("QUICKSTART_SSH_POLL_ATTEMPTS", 30),
		SettleDelay:       parseDuration("QUICKSTART_SETTLE_DELAY", 90*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
