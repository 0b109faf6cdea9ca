// Package provisioning orchestrates a deployment end to end: it creates
// the GPU instance with a first-boot payload, persists the deployment
// record, waits for the node to come up, and validates the inference
// stack from the outside.
package provisioning
