package build

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/stanmodel"
)

// Kind classifies a build attempt.
type Kind int

const (
	// Compiled means make produced a new executable.
	Compiled Kind = iota
	// Skipped means nothing was built: either a dry run or make found the
	// executable up to date.
	Skipped
	// Failed means make exited non-zero or could not be started.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Compiled:
		return "compiled"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one build attempt.
type Outcome struct {
	Kind       Kind
	Executable string
	// Diagnostics is the captured standard error of make, or the launch
	// error when make could not be started.
	Diagnostics string
	// Output is the captured standard output of make.
	Output string
}

// Options control a build attempt.
type Options struct {
	// Debug logs the make command line and its output.
	Debug bool
	// DryRun returns Skipped without running make.
	DryRun bool
}

// Manager runs the toolchain build.
type Manager struct {
	// Make is the build program, "make" when empty.
	Make string
}

// New returns a Manager using the make found on PATH.
func New() *Manager {
	return &Manager{Make: "make"}
}

func (m *Manager) program() string {
	if m == nil || m.Make == "" {
		return "make"
	}
	return m.Make
}

// Command returns the build invocation for model.
func (m *Manager) Command(model *stanmodel.Model) []string {
	return []string{m.program(), model.Executable()}
}

// Ensure builds model's executable if make considers it stale.
func (m *Manager) Ensure(ctx context.Context, model *stanmodel.Model, opts Options) Outcome {
	exe := model.Executable()
	argv := m.Command(model)
	logger := ctxlog.FromContext(ctx).With("executable", exe, "home", model.Home())

	if opts.DryRun {
		logger.Debug("Dry run, build not invoked.", "command", strings.Join(argv, " "))
		return Outcome{Kind: Skipped, Executable: exe}
	}

	before, hadBefore := modTime(exe)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = model.Home()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info("Building model.", "source", model.SourcePath())
	err := cmd.Run()

	if opts.Debug {
		logger.Info("Build command finished.", "command", strings.Join(argv, " "), "dir", cmd.Dir, "stdout", stdout.String())
	}

	if err != nil {
		diag := stderr.String()
		if diag == "" {
			diag = err.Error()
		}
		logger.Error("Build failed.", "error", err)
		return Outcome{Kind: Failed, Executable: exe, Diagnostics: diag, Output: stdout.String()}
	}

	after, hasAfter := modTime(exe)
	if hadBefore && hasAfter && after.Equal(before) {
		logger.Debug("Build skipped: executable is up to date.")
		return Outcome{Kind: Skipped, Executable: exe, Output: stdout.String()}
	}

	logger.Info("Model compiled.")
	return Outcome{Kind: Compiled, Executable: exe, Output: stdout.String()}
}

func modTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
