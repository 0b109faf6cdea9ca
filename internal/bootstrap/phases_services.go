package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/linode/ai-quickstart-minstral/internal/bootstrap/cmdexec"
	"github.com/linode/ai-quickstart-minstral/internal/manifest"
	"github.com/linode/ai-quickstart-minstral/internal/poll"
)

var errCoreNeverHealthy = errors.New("core service never reported healthy within the bootstrap window")

// generateManifest materializes the compose manifest for the configured
// model under the data directory.
func (e *Executor) generateManifest(_ context.Context) error {
	content, err := manifest.Generate(e.cfg.ManifestTemplate, e.cfg.ModelID)
	if err != nil {
		return err
	}
	path, err := manifest.Write(e.cfg.DataDir, content)
	if err != nil {
		return err
	}
	e.state.ManifestPath = path
	e.log.Info().Str("manifest", path).Msg("manifest written")
	return nil
}

// compose invokes the compose CLI against the generated manifest.
func (e *Executor) compose(ctx context.Context, args ...string) error {
	full := append([]string{"compose", "-f", e.state.ManifestPath}, args...)
	res, err := e.runner.Run(ctx, "docker", full...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &cmdexec.ExitError{Command: "docker compose", Result: res}
	}
	return nil
}

// startCoreService starts only the model-inference service. The dependent
// front-end must never start first.
func (e *Executor) startCoreService(ctx context.Context) error {
	if err := e.compose(ctx, "up", "-d", manifest.CoreService); err != nil {
		return fmt.Errorf("failed to start %s: %w", manifest.CoreService, err)
	}
	return nil
}

// awaitCoreListening waits for the core service's port to accept
// connections. The core may legitimately still be loading a large model
// when the cap runs out, so a timeout degrades rather than blocking the
// dependent service forever.
func (e *Executor) awaitCoreListening(ctx context.Context) error {
	res := poll.Poll(ctx, e.cfg.CoreListenAddr, poll.TCP(),
		poll.WithInterval(e.cfg.PollInterval),
		poll.WithMaxAttempts(e.cfg.ListenAttempts),
		poll.WithLogf(e.logf))

	if res.Outcome != poll.Ready {
		return fmt.Errorf("core service not listening on %s after %d attempts (%s); continuing, model may still be loading",
			e.cfg.CoreListenAddr, res.Attempts, res.Elapsed.Round(time.Second))
	}
	return nil
}

// startDependentService starts the chat front-end.
func (e *Executor) startDependentService(ctx context.Context) error {
	if err := e.compose(ctx, "up", "-d", manifest.DependentService); err != nil {
		return fmt.Errorf("failed to start %s: %w", manifest.DependentService, err)
	}
	return nil
}

// validatePersistence proves the front-end's data directory is writable by
// round-tripping a probe file. An unwritable data dir means silent chat
// history loss, which is worse than failing loudly here.
func (e *Executor) validatePersistence(_ context.Context) error {
	dir := filepath.Join(e.cfg.DataDir, "webui")
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("persistence directory missing: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return fmt.Errorf("persistence directory not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("failed to remove persistence probe: %w", err)
	}
	return nil
}

func (e *Executor) logf(format string, v ...any) {
	e.log.Info().Msgf(format, v...)
}
