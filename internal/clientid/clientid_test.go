package clientid

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ai/synapse-chat/internal/storage"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{9}[0-9]+$`)

func TestGenerate_Format(t *testing.T) {
	now := time.UnixMilli(1729331234567)

	id, err := Generate(now)
	require.NoError(t, err)

	assert.Regexp(t, idPattern, id)
	assert.True(t, len(id) > randomLength)
	assert.Equal(t, "1729331234567", id[randomLength:])
}

func TestGenerate_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := Generate(now)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	}
}

func TestResolve_CreatesOnce(t *testing.T) {
	store := storage.NewMemoryStorage()

	first, err := Resolve(store, time.Now())
	require.NoError(t, err)
	assert.Regexp(t, idPattern, first)

	stored, ok, _ := store.GetItem(StorageKey)
	assert.True(t, ok)
	assert.Equal(t, first, stored)

	second, err := Resolve(store, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_StableAcrossReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	first, err := Resolve(storage.NewFileStorage(path), time.Now())
	require.NoError(t, err)

	// a fresh store over the same file stands in for a page reload
	for i := 0; i < 3; i++ {
		again, err := Resolve(storage.NewFileStorage(path), time.Now())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_KeepsForeignValue(t *testing.T) {
	store := storage.NewMemoryStorage()
	require.NoError(t, store.SetItem(StorageKey, "test_user"))

	id, err := Resolve(store, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "test_user", id)
}

func TestResolve_EmptyValueIsReplaced(t *testing.T) {
	store := storage.NewMemoryStorage()
	require.NoError(t, store.SetItem(StorageKey, ""))

	id, err := Resolve(store, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

type failingStore struct {
	getErr error
	setErr error
}

func (f *failingStore) GetItem(string) (string, bool, error) { return "", false, f.getErr }
func (f *failingStore) SetItem(string, string) error         { return f.setErr }
func (f *failingStore) RemoveItem(string) error              { return nil }

func TestResolve_ReadError(t *testing.T) {
	id, err := Resolve(&failingStore{getErr: errors.New("disk gone")}, time.Now())
	assert.ErrorContains(t, err, "failed to read client identifier")
	assert.Regexp(t, idPattern, id)
}

func TestResolve_HealsCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	first, err := Resolve(storage.NewFileStorage(path), time.Now())
	assert.Error(t, err)
	require.Regexp(t, idPattern, first)

	second, err := Resolve(storage.NewFileStorage(path), time.Now())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_WriteErrorStillReturnsID(t *testing.T) {
	id, err := Resolve(&failingStore{setErr: errors.New("read-only")}, time.Now())
	assert.ErrorContains(t, err, "failed to persist client identifier")
	assert.Regexp(t, idPattern, id)
}
