package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.css")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "main.css")
	assert.Error(t, WriteFileAtomic(path, []byte("x"), 0o644))
}

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doodle.png")

	require.NoError(t, CreateExclusive(path, []byte("first"), 0o644))

	err := CreateExclusive(path, []byte("second"), 0o644)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLock_SerializesCriticalSections(t *testing.T) {
	var lock Lock
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lock.Do(func() error {
				v := counter
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLock_PropagatesError(t *testing.T) {
	var lock Lock
	want := errors.New("boom")
	assert.Equal(t, want, lock.Do(func() error { return want }))
}
