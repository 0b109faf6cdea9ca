package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linode/ai-quickstart-minstral/internal/bootstrap/cmdexec"
)

// fakeRunner scripts command results by prefix and records every call.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	results map[string]cmdexec.Result
	missing map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]cmdexec.Result),
		missing: make(map[string]bool),
	}
}

func (f *fakeRunner) on(prefix string, res cmdexec.Result) {
	f.results[prefix] = res
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (cmdexec.Result, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	for prefix, res := range f.results {
		if strings.HasPrefix(call, prefix) {
			return res, nil
		}
	}
	return cmdexec.Result{}, nil
}

func (f *fakeRunner) LookPath(name string) bool {
	return !f.missing[name]
}

func (f *fakeRunner) callIndex(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.calls {
		if strings.Contains(c, substr) {
			return i
		}
	}
	return -1
}

// testConfig returns a config with unreachable service endpoints and
// millisecond polling so advisory phases time out instantly.
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		ModelID:            "test/model",
		DataDir:            dir,
		StatusFile:         filepath.Join(dir, "motd"),
		CoreListenAddr:     "127.0.0.1:1",
		CoreBaseURL:        "http://127.0.0.1:1",
		ChatBaseURL:        "http://127.0.0.1:1",
		PollInterval:       time.Millisecond,
		ListenAttempts:     2,
		HealthAttempts:     2,
		CoreHealthInterval: time.Millisecond,
		CoreHealthAttempts: 2,
	}
}

func withGPU(r *fakeRunner) {
	r.on("lspci", cmdexec.Result{Stdout: "01:00.0 3D controller: NVIDIA Corporation GA100"})
	r.on("nvidia-smi", cmdexec.Result{ExitCode: 0})
}

func readStatus(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestRun_HappyPathWithUnreadyServices(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	withGPU(runner)
	runner.on("hostname -I", cmdexec.Result{Stdout: "203.0.113.10 10.0.0.5\n"})

	e := NewExecutor(cfg, WithRunner(runner))
	err := e.Run(context.Background())
	require.NoError(t, err, "unready services are caveats, not failures")

	state := e.State()
	assert.Equal(t, PhaseComplete, state.Phase)
	assert.True(t, state.GPUPresent)
	assert.NotEmpty(t, state.Caveats)

	text := readStatus(t, cfg.StatusFile)
	assert.Contains(t, text, "deployment complete")
	assert.Contains(t, text, "http://203.0.113.10:8000/v1")
	assert.Contains(t, text, "test/model")
	assert.Contains(t, text, "Caveats")
}

func TestRun_DependentNeverStartsBeforeCore(t *testing.T) {
	t.Parallel()
	for _, gpu := range []bool{true, false} {
		runner := newFakeRunner()
		if gpu {
			withGPU(runner)
		} else {
			runner.on("lspci", cmdexec.Result{Stdout: "00:02.0 VGA compatible controller: Vendor"})
		}

		e := NewExecutor(testConfig(t), WithRunner(runner))
		require.NoError(t, e.Run(context.Background()))

		coreIdx := runner.callIndex("up -d vllm")
		depIdx := runner.callIndex("up -d open-webui")
		require.GreaterOrEqual(t, coreIdx, 0, "core service started (gpu=%v)", gpu)
		require.GreaterOrEqual(t, depIdx, 0, "dependent service started (gpu=%v)", gpu)
		assert.Less(t, coreIdx, depIdx, "core starts before dependent (gpu=%v)", gpu)
	}
}

func TestRun_CoreListenTimeoutStillStartsDependent(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	withGPU(runner)

	e := NewExecutor(cfg, WithRunner(runner))
	require.NoError(t, e.Run(context.Background()))

	assert.GreaterOrEqual(t, runner.callIndex("up -d open-webui"), 0)

	// Terminal state is success with a caveat, not an error.
	text := readStatus(t, cfg.StatusFile)
	assert.Contains(t, text, "deployment complete")
	assert.Contains(t, text, "not listening")
}

func TestRun_NoGPUHardwareContinues(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	runner.on("lspci", cmdexec.Result{Stdout: "00:02.0 VGA compatible controller: Vendor"})

	e := NewExecutor(cfg, WithRunner(runner))
	require.NoError(t, e.Run(context.Background()))

	state := e.State()
	assert.False(t, state.GPUPresent)
	assert.Equal(t, -1, runner.callIndex("ubuntu-drivers"), "no driver install without hardware")
	assert.GreaterOrEqual(t, runner.callIndex("up -d vllm"), 0, "services still started")

	text := readStatus(t, cfg.StatusFile)
	assert.Contains(t, text, "deployment complete")
	assert.Contains(t, text, "without GPU acceleration")
}

func TestRun_DriverInstallFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	runner.on("lspci", cmdexec.Result{Stdout: "NVIDIA Corporation GA100"})
	runner.on("nvidia-smi", cmdexec.Result{ExitCode: 9})
	runner.on("ubuntu-drivers", cmdexec.Result{ExitCode: 1, Stderr: "no drivers found"})

	e := NewExecutor(cfg, WithRunner(runner))
	require.NoError(t, e.Run(context.Background()))

	state := e.State()
	assert.True(t, state.GPUPresent)
	assert.False(t, state.DriverReady)
	assert.GreaterOrEqual(t, runner.callIndex("up -d vllm"), 0)
}

func TestRun_DependencyInstallFailureIsFatal(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	runner.on("env DEBIAN_FRONTEND=noninteractive apt-get -y install docker.io",
		cmdexec.Result{ExitCode: 100, Stderr: "Unable to locate package"})

	e := NewExecutor(cfg, WithRunner(runner))
	err := e.Run(context.Background())
	require.Error(t, err)

	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseDependenciesInstalling, perr.Phase)

	// No service was ever started.
	assert.Equal(t, -1, runner.callIndex("docker compose"))

	text := readStatus(t, cfg.StatusFile)
	assert.Contains(t, text, "FAILED")
	assert.Contains(t, text, "DependenciesInstalling")
	assert.Contains(t, text, "Unable to locate package")
}

func TestRun_CoreStartFailureIsFatal(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	runner := newFakeRunner()
	withGPU(runner)
	runner.on("docker compose", cmdexec.Result{ExitCode: 1, Stderr: "invalid compose file"})

	e := NewExecutor(cfg, WithRunner(runner))
	err := e.Run(context.Background())

	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseCoreStarting, perr.Phase)
	assert.Equal(t, -1, runner.callIndex("up -d open-webui"))
}

func TestRun_WritesManifestForModel(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.ModelID = "mistralai/Mistral-7B-Instruct-v0.3"
	runner := newFakeRunner()
	withGPU(runner)

	e := NewExecutor(cfg, WithRunner(runner))
	require.NoError(t, e.Run(context.Background()))

	content, err := os.ReadFile(filepath.Join(cfg.DataDir, "docker-compose.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "mistralai/Mistral-7B-Instruct-v0.3")
}

func TestValidatePersistence(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	e := NewExecutor(cfg, WithRunner(newFakeRunner()))

	// Missing data dir.
	assert.Error(t, e.validatePersistence(context.Background()))

	// Healthy dir passes and leaves no probe file behind.
	webui := filepath.Join(cfg.DataDir, "webui")
	require.NoError(t, os.MkdirAll(webui, 0o755))
	require.NoError(t, e.validatePersistence(context.Background()))
	_, err := os.Stat(filepath.Join(webui, ".write-probe"))
	assert.True(t, os.IsNotExist(err))

	// A file where the directory should be is a fatal condition.
	require.NoError(t, os.RemoveAll(webui))
	require.NoError(t, os.WriteFile(webui, []byte("not a dir"), 0o644))
	err = e.validatePersistence(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestRun_HealthyCoreViaHTTP(t *testing.T) {
	t.Parallel()
	core := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/v1/chat/completions":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"chat.completion","choices":[{"message":{"role":"assistant","content":"ready"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer core.Close()
	chat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer chat.Close()

	cfg := testConfig(t)
	cfg.CoreBaseURL = core.URL
	cfg.ChatBaseURL = chat.URL
	cfg.CoreListenAddr = strings.TrimPrefix(core.URL, "http://")
	// Local servers answer fast, but give the probes headroom anyway.
	cfg.PollInterval = 50 * time.Millisecond
	cfg.CoreHealthInterval = 50 * time.Millisecond

	runner := newFakeRunner()
	withGPU(runner)

	e := NewExecutor(cfg, WithRunner(runner), WithHTTPClient(core.Client()))
	require.NoError(t, e.Run(context.Background()))

	state := e.State()
	assert.True(t, state.CoreHealthy)
	assert.Empty(t, state.Caveats, "fully healthy stack has no caveats")
}

func TestRun_StrictHealthEscalatesTimeout(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.StrictHealth = true
	runner := newFakeRunner()
	withGPU(runner)

	e := NewExecutor(cfg, WithRunner(runner))
	err := e.Run(context.Background())

	var perr *PhaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PhaseCoreHealthy, perr.Phase)

	text := readStatus(t, cfg.StatusFile)
	assert.Contains(t, text, "FAILED")
}

func TestCreateDirectories_Idempotent(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	e := NewExecutor(cfg, WithRunner(newFakeRunner()))

	require.NoError(t, e.createDirectories(context.Background()))
	first, err := os.Stat(filepath.Join(cfg.DataDir, "models"))
	require.NoError(t, err)

	require.NoError(t, e.createDirectories(context.Background()))
	second, err := os.Stat(filepath.Join(cfg.DataDir, "models"))
	require.NoError(t, err)

	assert.Equal(t, first.Mode(), second.Mode())
}
