// Package bootstrap implements the on-node first-boot state machine that
// brings up the inference stack: data directories, container runtime and GPU
// toolkit installation, manifest generation, ordered service startup, and
// readiness/contract validation.
//
// Phases run strictly in order. A phase is either fatal (directory setup,
// dependency installation, service starts, persistence validation) or
// advisory (GPU enablement, readiness and health polls, the API contract
// probe). Fatal failures abort the run; advisory failures record a caveat on
// the run state and continue. Either way the terminal status surface is
// written exactly once at the end, so an operator always finds either a
// complete access summary or a failing phase with remediation hints.
package bootstrap
