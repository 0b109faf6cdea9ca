package bootstrap

import "fmt"

// Phase identifies a step of the bootstrap state machine. Phases advance
// forward only; retries happen inside a phase, never across phases.
type Phase string

const (
	PhaseInitializing           Phase = "Initializing"
	PhaseDependenciesInstalling Phase = "DependenciesInstalling"
	PhaseGpuConfiguring         Phase = "GpuConfiguring"
	PhaseManifestGenerated      Phase = "ManifestGenerated"
	PhaseCoreStarting           Phase = "CoreStarting"
	PhaseCoreListening          Phase = "CoreListening"
	PhaseDependentStarting      Phase = "DependentStarting"
	PhasePersistenceValidated   Phase = "PersistenceValidated"
	PhaseCoreHealthy            Phase = "CoreHealthy"
	PhaseApiValidated           Phase = "ApiValidated"
	PhaseComplete               Phase = "Complete"
)

// PhaseError carries the failing phase alongside the cause so the status
// reporter can name it. Only fatal phases produce a PhaseError.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
