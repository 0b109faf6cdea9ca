package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/linode/ai-quickstart-minstral/internal/bootstrap/cmdexec"
)

// dataSubdirs are created under DataDir. models caches downloaded weights,
// webui holds the front-end's persistent state.
var dataSubdirs = []string{"models", "webui"}

// createDirectories idempotently ensures the deployment data directories
// exist. Nothing downstream can run without local storage, so failure here
// is fatal.
func (e *Executor) createDirectories(_ context.Context) error {
	dirs := []string{e.cfg.DataDir}
	for _, sub := range dataSubdirs {
		dirs = append(dirs, filepath.Join(e.cfg.DataDir, sub))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// aptGet runs apt-get non-interactively through the runner.
func (e *Executor) aptGet(ctx context.Context, args ...string) error {
	full := append([]string{"DEBIAN_FRONTEND=noninteractive", "apt-get", "-y"}, args...)
	res, err := e.runner.Run(ctx, "env", full...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &cmdexec.ExitError{Command: "apt-get " + strings.Join(args, " "), Result: res}
	}
	return nil
}

// installDependencies installs the container runtime, the compose CLI, and
// the NVIDIA container toolkit. Without these the rest of the stack is
// unreachable, so any failed install aborts the run.
func (e *Executor) installDependencies(ctx context.Context) error {
	if err := e.aptGet(ctx, "update"); err != nil {
		return fmt.Errorf("package index refresh failed: %w", err)
	}

	packages := []string{"docker.io", "docker-compose-v2", "nvidia-container-toolkit"}
	for _, pkg := range packages {
		e.log.Info().Str("package", pkg).Msg("installing")
		if err := e.aptGet(ctx, "install", pkg); err != nil {
			return fmt.Errorf("failed to install %s: %w", pkg, err)
		}
	}

	// Register the nvidia runtime with docker and pick it up.
	if res, err := e.runner.Run(ctx, "nvidia-ctk", "runtime", "configure", "--runtime=docker"); err != nil || res.ExitCode != 0 {
		// The toolkit is installed; runtime registration problems surface
		// later through GPU configuration, not here.
		e.log.Warn().Msg("nvidia-ctk runtime configure did not succeed")
	}
	if res, err := e.runner.Run(ctx, "systemctl", "restart", "docker"); err != nil || res.ExitCode != 0 {
		return fmt.Errorf("failed to restart docker after runtime configuration")
	}
	return nil
}

// configureGPU probes for NVIDIA hardware and a responding driver, and
// installs drivers when hardware is present without one. A node without GPU
// hardware is a degraded deployment, not a failed one: inference falls back
// to CPU and the caveat lands in the terminal status.
func (e *Executor) configureGPU(ctx context.Context) error {
	present, err := e.gpuHardwarePresent(ctx)
	if err != nil || !present {
		e.state.GPUPresent = false
		e.state.caveat("no GPU hardware detected; inference will run without GPU acceleration")
		e.log.Warn().Msg("no NVIDIA device on the PCI bus, continuing without GPU")
		return nil
	}
	e.state.GPUPresent = true

	if e.driverResponds(ctx) {
		e.state.DriverReady = true
		return nil
	}

	e.log.Info().Msg("GPU present without working driver, installing drivers")
	if err := e.installGPUDriver(ctx); err != nil {
		// Driver install failures are deliberately non-fatal: the real
		// problem surfaces when the core service fails its health check.
		e.state.caveat(fmt.Sprintf("GPU driver installation failed: %v", err))
		e.log.Warn().Err(err).Msg("driver installation failed, continuing")
		return nil
	}

	e.state.DriverReady = e.driverResponds(ctx)
	if !e.state.DriverReady {
		e.state.caveat("GPU driver installed but nvidia-smi is not responding; a reboot may be required")
	}
	return nil
}

func (e *Executor) gpuHardwarePresent(ctx context.Context) (bool, error) {
	if !e.runner.LookPath("lspci") {
		return false, fmt.Errorf("lspci unavailable")
	}
	out, err := cmdexec.Output(ctx, e.runner, "lspci")
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(out), "nvidia"), nil
}

func (e *Executor) driverResponds(ctx context.Context) bool {
	res, err := e.runner.Run(ctx, "nvidia-smi")
	return err == nil && res.ExitCode == 0
}

func (e *Executor) installGPUDriver(ctx context.Context) error {
	if err := e.aptGet(ctx, "install", "ubuntu-drivers-common"); err != nil {
		return err
	}
	res, err := e.runner.Run(ctx, "ubuntu-drivers", "install")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &cmdexec.ExitError{Command: "ubuntu-drivers install", Result: res}
	}
	return nil
}
