package bootstrap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/linode/ai-quickstart-minstral/internal/bootstrap/cmdexec"
	"github.com/linode/ai-quickstart-minstral/internal/status"
)

// Config controls one bootstrap run.
type Config struct {
	// ModelID is the Hugging Face model identifier served by the core service.
	ModelID string

	// DataDir is the root of the deployment's on-disk state.
	DataDir string

	// StatusFile is the terminal status surface. Empty means /etc/motd.
	StatusFile string

	// ManifestTemplate, when non-empty, is substituted instead of
	// synthesizing the manifest.
	ManifestTemplate string

	// CoreListenAddr is the host:port polled for the core service accepting
	// connections.
	CoreListenAddr string

	// CoreBaseURL and ChatBaseURL are the local URLs of the two services.
	CoreBaseURL string
	ChatBaseURL string

	// StrictHealth escalates a core health-check timeout from a caveat to a
	// terminal error.
	StrictHealth bool

	// PollInterval/ListenAttempts/HealthAttempts/CoreHealthInterval tune the
	// readiness polls. Zero values take the defaults below.
	PollInterval       time.Duration
	ListenAttempts     int
	HealthAttempts     int
	CoreHealthInterval time.Duration
	CoreHealthAttempts int
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "/opt/ai-quickstart"
	}
	if c.CoreListenAddr == "" {
		c.CoreListenAddr = "localhost:8000"
	}
	if c.CoreBaseURL == "" {
		c.CoreBaseURL = "http://localhost:8000"
	}
	if c.ChatBaseURL == "" {
		c.ChatBaseURL = "http://localhost:3000"
	}
	if c.PollInterval == 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.ListenAttempts == 0 {
		c.ListenAttempts = 30
	}
	if c.HealthAttempts == 0 {
		c.HealthAttempts = 30
	}
	// The core service loads multi-gigabyte weights; give it a longer leash
	// than the front-end.
	if c.CoreHealthInterval == 0 {
		c.CoreHealthInterval = 10 * time.Second
	}
	if c.CoreHealthAttempts == 0 {
		c.CoreHealthAttempts = 60
	}
}

// State is the mutable run state threaded through the phases.
type State struct {
	Phase        Phase
	Caveats      []string
	GPUPresent   bool
	DriverReady  bool
	CoreHealthy  bool
	ManifestPath string
}

func (s *State) caveat(msg string) {
	s.Caveats = append(s.Caveats, msg)
}

// Executor drives the bootstrap phases.
type Executor struct {
	cfg      Config
	runner   cmdexec.Runner
	reporter *status.Reporter
	client   *http.Client
	log      zerolog.Logger

	state State
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner substitutes the command runner (tests use a fake).
func WithRunner(r cmdexec.Runner) Option {
	return func(e *Executor) { e.runner = r }
}

// WithHTTPClient substitutes the HTTP client used by probes.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.client = c }
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor builds an executor for one bootstrap run.
func NewExecutor(cfg Config, opts ...Option) *Executor {
	cfg.applyDefaults()
	e := &Executor{
		cfg:      cfg,
		runner:   cmdexec.NewExec(),
		reporter: status.NewReporter(cfg.StatusFile),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
		state:    State{Phase: PhaseInitializing},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the run state.
func (e *Executor) State() State {
	snap := e.state
	snap.Caveats = append([]string(nil), e.state.Caveats...)
	return snap
}

// step is one phase of the state machine. Fatal steps abort the run on
// error; advisory steps record their own caveats and return nil.
type step struct {
	phase Phase
	fatal bool
	run   func(ctx context.Context) error
}

// Run executes the state machine once. It assumes a clean slate and is not
// restartable mid-run. The terminal status file is always written: with an
// error payload when a fatal step fails, with the access summary otherwise.
func (e *Executor) Run(ctx context.Context) error {
	steps := []step{
		{PhaseInitializing, true, e.createDirectories},
		{PhaseDependenciesInstalling, true, e.installDependencies},
		{PhaseGpuConfiguring, false, e.configureGPU},
		{PhaseManifestGenerated, true, e.generateManifest},
		{PhaseCoreStarting, true, e.startCoreService},
		{PhaseCoreListening, false, e.awaitCoreListening},
		{PhaseDependentStarting, true, e.startDependentService},
		{PhasePersistenceValidated, true, e.validatePersistence},
		{PhaseCoreHealthy, false, e.healthChecks},
		{PhaseApiValidated, false, e.validateAPIContract},
	}

	start := time.Now()
	e.log.Info().Str("model", e.cfg.ModelID).Msg("bootstrap starting")

	for _, s := range steps {
		e.state.Phase = s.phase
		e.log.Info().Str("phase", string(s.phase)).Msg("phase starting")

		if err := s.run(ctx); err != nil {
			if !s.fatal {
				// Advisory failures degrade to caveats; keep going.
				e.log.Warn().Str("phase", string(s.phase)).Err(err).Msg("phase degraded")
				e.state.caveat(err.Error())
				continue
			}

			e.log.Error().Str("phase", string(s.phase)).Err(err).Msg("phase failed")
			perr := &PhaseError{Phase: s.phase, Err: err}
			if rerr := e.reporter.Error(string(s.phase), err.Error()); rerr != nil {
				e.log.Error().Err(rerr).Msg("failed to write error status")
			}
			return perr
		}

		e.log.Info().Str("phase", string(s.phase)).Msg("phase complete")
	}

	if e.cfg.StrictHealth && e.coreNeverHealthy() {
		err := &PhaseError{Phase: PhaseCoreHealthy, Err: errCoreNeverHealthy}
		if rerr := e.reporter.Error(string(PhaseCoreHealthy), errCoreNeverHealthy.Error()); rerr != nil {
			e.log.Error().Err(rerr).Msg("failed to write error status")
		}
		return err
	}

	e.state.Phase = PhaseComplete
	addr := e.detectAddress(ctx)
	access := status.Access{
		CoreURL: "http://" + addr + ":8000/v1",
		ChatURL: "http://" + addr + ":3000",
		ModelID: e.cfg.ModelID,
		Caveats: e.state.Caveats,
	}
	if err := e.reporter.Success(access); err != nil {
		return err
	}

	e.log.Info().Dur("elapsed", time.Since(start)).Int("caveats", len(e.state.Caveats)).
		Msg("bootstrap complete")
	return nil
}

// detectAddress resolves the node's primary address for the access summary.
// Best effort: the endpoints still work with a substituted address.
func (e *Executor) detectAddress(ctx context.Context) string {
	out, err := cmdexec.Output(ctx, e.runner, "hostname", "-I")
	if err == nil {
		if fields := strings.Fields(out); len(fields) > 0 {
			return fields[0]
		}
	}
	return "127.0.0.1"
}
