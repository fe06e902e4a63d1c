package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFileLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.pid")

	pf, err := acquirePIDFile(path, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	// Same process is alive, so a locked second start is refused
	_, err = acquirePIDFile(path, true)
	assert.ErrorContains(t, err, "running process")

	pf.Release()
	assert.NoFileExists(t, path)
}

func TestPIDFileCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))

	_, err := acquirePIDFile(path, true)
	assert.ErrorContains(t, err, "corrupted PID file")

	// Without locking the file is simply overwritten
	pf, err := acquirePIDFile(path, false)
	require.NoError(t, err)
	pf.Release()
}
