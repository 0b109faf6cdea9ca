package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func countClass(s, class string) int {
	n := 0
	for _, c := range s {
		if strings.ContainsRune(class, c) {
			n++
		}
	}
	return n
}

func TestGeneratePassword_Policy(t *testing.T) {
	t.Parallel()
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword()
		require.NoError(t, err)

		assert.Len(t, pw, PasswordLength)
		assert.GreaterOrEqual(t, len(pw), 12, "must exceed provider minimum of 11")
		assert.LessOrEqual(t, len(pw), 128, "must stay within provider maximum")

		assert.GreaterOrEqual(t, countClass(pw, upperChars), 3, "uppercase minimum")
		assert.GreaterOrEqual(t, countClass(pw, lowerChars), 3, "lowercase minimum")
		assert.GreaterOrEqual(t, countClass(pw, digitChars), 3, "digit minimum")
		assert.GreaterOrEqual(t, countClass(pw, symbolChars), 3, "symbol minimum")
	}
}

func TestGeneratePassword_Unique(t *testing.T) {
	t.Parallel()
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDiscoverAuthorizedKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	// Empty directory: no key, no error.
	assert.Empty(t, DiscoverAuthorizedKey(dir))

	// Unparseable .pub files are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pub"), []byte("not a key"), 0o644))
	assert.Empty(t, DiscoverAuthorizedKey(dir))

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	keyLine := ssh.MarshalAuthorizedKey(sshPub)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519.pub"), keyLine, 0o644))

	got := DiscoverAuthorizedKey(dir)
	assert.Equal(t, strings.TrimSpace(string(keyLine)), got)
}
