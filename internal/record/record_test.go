package record

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id int) *Record {
	return &Record{
		InstanceID:   id,
		InstanceIP:   "203.0.113.10",
		InstanceType: "g6-dedicated-8",
		Region:       "us-east",
		Label:        "ai-quickstart-1700000000",
		RootPassword: "Sup3r!Secret!Passw0rd#",
		ModelID:      "mistralai/Mistral-7B-Instruct-v0.3",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())

	rec := testRecord(12345)
	require.NoError(t, store.Save(rec))

	got, err := store.Load(12345)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestStore_SaveSetsRestrictivePermissions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "deployments"))
	require.NoError(t, store.Save(testRecord(7)))

	info, err := os.Stat(filepath.Join(dir, "deployments", "7.json"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestStore_SaveRejectsMissingID(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	assert.Error(t, store.Save(&Record{Label: "no-id"}))
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	_, err := store.Load(999)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_List(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())

	// Empty store lists nothing without error.
	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Save(testRecord(1)))
	require.NoError(t, store.Save(testRecord(2)))

	records, err = store.List()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_RemoveIdempotent(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(testRecord(3)))

	require.NoError(t, store.Remove(3))
	_, err := store.Load(3)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	// Second removal is not an error.
	assert.NoError(t, store.Remove(3))
}
