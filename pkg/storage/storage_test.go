package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("cart", `[{"quantity":1}]`))
	require.NoError(t, s.Set("token", "abc"))

	v, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"quantity":1}]`, v)

	require.NoError(t, s.Remove("cart"))
	_, ok, err = s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove("missing"))

	v, ok, err = s.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestFile(t *testing.T) {
	exerciseStorage(t, NewFile(filepath.Join(t.TempDir(), "state", "storage.json")))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, NewFile(path).Set("token", "abc"))

	v, ok, err := NewFile(path).Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewFile(path).Get("cart")
	assert.Error(t, err)
}

func TestMemory_ConcurrentWrites(t *testing.T) {
	s := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set("cart", "x")
			_, _, _ = s.Get("cart")
		}()
	}
	wg.Wait()

	v, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}
