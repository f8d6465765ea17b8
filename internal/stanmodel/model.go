// Package stanmodel defines the handle that identifies a model: its source
// file and the toolchain installation that compiles and runs it.
package stanmodel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/paths"
)

// HomeEnvVar names the environment variable holding the toolchain home.
const HomeEnvVar = "CMDSTAN_HOME"

// ConfigurationError reports missing configuration that no operation can
// proceed without.
type ConfigurationError struct {
	Variable string
	Message  string
}

func (e *ConfigurationError) Error() string {
	if e.Variable == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Variable, e.Message)
}

// DefaultHome looks up HomeEnvVar with lookup, usually os.LookupEnv. A nil
// lookup means os.LookupEnv.
func DefaultHome(lookup func(string) (string, bool)) (string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	home, ok := lookup(HomeEnvVar)
	if !ok || home == "" {
		return "", &ConfigurationError{
			Variable: HomeEnvVar,
			Message:  "environment variable is not set; point it at the CmdStan installation directory",
		}
	}
	return home, nil
}

// Model identifies a model source file and the toolchain home used to build
// and run it. It is read-only after New.
type Model struct {
	source string
	home   string
}

// New returns a Model for source, built with the toolchain at home. The
// source must end in paths.SourceExt. A relative source is made absolute and
// a warning is logged.
func New(ctx context.Context, source, home string) (*Model, error) {
	if home == "" {
		return nil, &ConfigurationError{Message: "toolchain home must not be empty"}
	}
	if err := paths.CheckExtension(source); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(source) {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source path %q: %w", source, err)
		}
		ctxlog.FromContext(ctx).Warn("Source path is not absolute, normalized.", "given", source, "path", abs)
		source = abs
	}
	return &Model{source: filepath.Clean(source), home: home}, nil
}

// SourcePath returns the absolute path of the model source.
func (m *Model) SourcePath() string { return m.source }

// Home returns the toolchain home directory.
func (m *Model) Home() string { return m.home }

// Executable returns the path the compiled model is written to.
func (m *Model) Executable() string {
	exe, _ := paths.Executable(m.source, false)
	return exe
}

// OutputBase returns the default prefix for data, sample and log files.
func (m *Model) OutputBase() string {
	return paths.OutputBase(m.source)
}

func (m *Model) String() string {
	return fmt.Sprintf("Stan model at %s (toolchain home %s)", m.source, m.home)
}
