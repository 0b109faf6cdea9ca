// Package linode wraps the Linode API client behind a narrow provisioning
// interface.
//
// The package separates the interface consumed by the orchestrator
// ([InstanceProvisioner]) from the SDK-backed implementation ([RealClient])
// so tests substitute a mock without touching the network. Provider errors
// are classified (not found, invalid input, rate limited) so callers can
// distinguish fatal parameter problems from transient API conditions.
package linode
