// Package poll provides bounded readiness polling for network targets.
//
// The [Poll] function drives a single probe against one target with a fixed
// inter-attempt interval and a fixed attempt cap. Exhausting the cap is a
// normal outcome reported as [TimedOut], never an error: callers decide
// whether an unready target is fatal. It is used for "wait until the SSH
// port opens" and "wait until the inference API answers" style checks.
package poll
