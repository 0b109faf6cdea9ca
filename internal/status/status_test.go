package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess_WritesAccessBlock(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "motd")
	r := NewReporter(path)

	err := r.Success(Access{
		CoreURL: "http://203.0.113.10:8000/v1",
		ChatURL: "http://203.0.113.10:3000",
		ModelID: "mistralai/Mistral-7B-Instruct-v0.3",
		Caveats: []string{"core service still loading at bootstrap exit"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "deployment complete")
	assert.Contains(t, text, "http://203.0.113.10:8000/v1")
	assert.Contains(t, text, "http://203.0.113.10:3000")
	assert.Contains(t, text, "mistralai/Mistral-7B-Instruct-v0.3")
	assert.Contains(t, text, "UNAUTHENTICATED")
	assert.Contains(t, text, "still loading")
}

func TestError_WritesRemediation(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "motd")
	r := NewReporter(path)

	require.NoError(t, r.Error("InstallDependencies", "apt-get install docker-ce exited 100"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "FAILED")
	assert.Contains(t, text, "InstallDependencies")
	assert.Contains(t, text, "exited 100")
	assert.Contains(t, text, "/var/log/quickstart-bootstrap.log")
	assert.Contains(t, text, "df -h")
}

func TestReporter_OverwritesPreviousState(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "motd")
	r := NewReporter(path)

	require.NoError(t, r.Error("CreateDirectories", "mkdir failed"))
	require.NoError(t, r.Success(Access{CoreURL: "http://x:8000/v1", ChatURL: "http://x:3000", ModelID: "m"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// Only the latest terminal state is visible.
	assert.NotContains(t, string(content), "CreateDirectories")
	assert.Contains(t, string(content), "deployment complete")
}

func TestNewReporter_DefaultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultPath, NewReporter("").Path())
}
