package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
)

// ProcessRunner runs a chain as an external process with standard output and
// standard error appended to the chain's log file.
type ProcessRunner struct{}

// Run implements Runner. The log file is removed first so a previous attempt
// at the same path leaves no stale content.
func (ProcessRunner) Run(ctx context.Context, c ChainCommand) error {
	if err := os.Remove(c.LogPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale log %s: %w", c.LogPath, err)
	}
	logFile, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", c.LogPath, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	configureCommandProcess(cmd)
	cmd.Cancel = func() error {
		terminateCommandProcess(cmd)
		return nil
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(logFile, "failed to launch %s: %v\n", c.Path, err)
		return fmt.Errorf("failed to launch chain %d: %w", c.ChainID, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("chain %d exited: %w", c.ChainID, err)
	}
	return nil
}
