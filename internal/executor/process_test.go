package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skip on windows: test uses /bin/sh")
	}
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "chain.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestProcessRunner_AppendsBothStreamsToLog(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, "echo to-stdout\necho to-stderr >&2\n")
	logPath := filepath.Join(dir, "m_chain_1.log")
	require.NoError(t, os.WriteFile(logPath, []byte("stale content\n"), 0o644))

	err := ProcessRunner{}.Run(context.Background(), ChainCommand{ChainID: 1, Path: script, LogPath: logPath})
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to-stdout")
	assert.Contains(t, string(data), "to-stderr")
	assert.NotContains(t, string(data), "stale content")
}

func TestProcessRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, "echo 'bogus=12 is either mistyped or misplaced.' >&2\nexit 64\n")
	logPath := filepath.Join(dir, "m_chain_3.log")

	err := ProcessRunner{}.Run(context.Background(), ChainCommand{ChainID: 3, Path: script, LogPath: logPath})
	assert.ErrorContains(t, err, "chain 3 exited")

	data, readErr := os.ReadFile(logPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "mistyped or misplaced")
}

func TestProcessRunner_LaunchFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "m_chain_1.log")
	missing := filepath.Join(dir, "no-such-executable")

	err := ProcessRunner{}.Run(context.Background(), ChainCommand{ChainID: 1, Path: missing, LogPath: logPath})
	assert.ErrorContains(t, err, "failed to launch chain 1")

	data, readErr := os.ReadFile(logPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "failed to launch")
}
