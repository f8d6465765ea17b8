package stanrun

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/stanrun/internal/build"
	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/executor"
	"github.com/vk/stanrun/internal/fsutil"
	"github.com/vk/stanrun/internal/options"
	"github.com/vk/stanrun/internal/paths"
	"github.com/vk/stanrun/internal/stanmodel"
	"github.com/vk/stanrun/internal/standata"
	"github.com/zclconf/go-cty/cty"
)

type (
	// Model identifies a model source and its toolchain home.
	Model = stanmodel.Model
	// ConfigurationError reports a missing toolchain home.
	ConfigurationError = stanmodel.ConfigurationError
	// Result is the outcome of one chain.
	Result = executor.Result
	// BuildOutcome is the outcome of one build attempt.
	BuildOutcome = build.Outcome

	// OptionSet is a set of sampler options: Text, Record or List.
	OptionSet = options.Set
	// Text is a space separated option string.
	Text = options.Text
	// Record is an ordered list of option fields.
	Record = options.Record
	// List concatenates option sets.
	List = options.List
	// Field is a key/value pair of a Record.
	Field = options.Field
)

// NoValue marks a Record field emitted as its bare key.
var NoValue = options.NoValue

// F is shorthand for constructing a Field.
func F(key string, value any) Field { return options.F(key, value) }

// ErrInvalidExtension is returned for model sources not ending in ".stan".
var ErrInvalidExtension = paths.ErrInvalidExtension

// BuildError reports that the toolchain failed to compile a model.
type BuildError struct {
	Model       string
	Diagnostics string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("error when compiling %s:\n%s", e.Model, strings.TrimRight(e.Diagnostics, "\n"))
}

// NewModel returns a Model for source, using the toolchain home named by the
// CMDSTAN_HOME environment variable. A missing variable is reported as a
// *ConfigurationError before anything touches the filesystem.
func NewModel(ctx context.Context, source string) (*Model, error) {
	home, err := stanmodel.DefaultHome(nil)
	if err != nil {
		return nil, err
	}
	return stanmodel.New(ctx, source, home)
}

// CompileOptions control Compile.
type CompileOptions struct {
	Debug  bool
	DryRun bool
}

// SampleRequest describes a sampling call.
type SampleRequest struct {
	// Data is written to the data file when DataFile is empty. A null value
	// writes an empty object.
	Data cty.Value
	// DataFile, when set, is used as is and Data is ignored.
	DataFile string
	// Chains is the number of chains, at least 1.
	Chains int
	// OutputBase defaults to the model's output base.
	OutputBase string
	// RmSamples removes existing sample files first. Nil means true.
	RmSamples     *bool
	SampleOptions options.Set
	OutputOptions options.Set
	// ChainOptions adds per-chain sample options.
	ChainOptions     func(chainID int) options.Set
	DebugCommands    bool
	DebugCompilation bool
}

// Sampler compiles models and dispatches their chains. The zero value is not
// usable; see NewSampler.
type Sampler struct {
	Builder  *build.Manager
	Executor *executor.Executor
}

// NewSampler returns a Sampler with the given build manager and executor;
// nil arguments select the defaults.
func NewSampler(builder *build.Manager, exec *executor.Executor) *Sampler {
	if builder == nil {
		builder = build.New()
	}
	if exec == nil {
		exec = executor.New(nil, 0)
	}
	return &Sampler{Builder: builder, Executor: exec}
}

var defaultSampler = NewSampler(nil, nil)

// Compile builds m with the default Sampler.
func Compile(ctx context.Context, m *Model, opts CompileOptions) (BuildOutcome, error) {
	return defaultSampler.Compile(ctx, m, opts)
}

// Sample runs the chains of req with the default Sampler.
func Sample(ctx context.Context, m *Model, req SampleRequest) ([]Result, error) {
	return defaultSampler.Sample(ctx, m, req)
}

// Compile makes sure m's executable is up to date. A failed build is
// returned as a *BuildError together with the outcome.
func (s *Sampler) Compile(ctx context.Context, m *Model, opts CompileOptions) (BuildOutcome, error) {
	out := s.Builder.Ensure(ctx, m, build.Options{Debug: opts.Debug, DryRun: opts.DryRun})
	if out.Kind == build.Failed {
		return out, &BuildError{Model: m.SourcePath(), Diagnostics: out.Diagnostics}
	}
	return out, nil
}

// Sample compiles m, prepares the data file and runs req.Chains chains
// concurrently. The results are ordered by chain id.
func (s *Sampler) Sample(ctx context.Context, m *Model, req SampleRequest) ([]Result, error) {
	_, results, err := s.CompileAndSample(ctx, m, req)
	return results, err
}

// CompileAndSample is Sample that also returns the build outcome, so callers
// reporting on the build need not run make a second time.
func (s *Sampler) CompileAndSample(ctx context.Context, m *Model, req SampleRequest) (BuildOutcome, []Result, error) {
	logger := ctxlog.FromContext(ctx).With("model", m.SourcePath())
	if req.Chains < 1 {
		return BuildOutcome{}, nil, fmt.Errorf("number of chains must be at least 1, got %d", req.Chains)
	}

	outputBase := req.OutputBase
	if outputBase == "" {
		outputBase = m.OutputBase()
	}

	outcome, err := s.Compile(ctx, m, CompileOptions{Debug: req.DebugCompilation})
	if err != nil {
		return outcome, nil, err
	}

	if req.RmSamples == nil || *req.RmSamples {
		n, err := fsutil.RemoveSamples(outputBase)
		if err != nil {
			logger.Warn("Could not remove all previous samples.", "error", err)
		} else if n > 0 {
			logger.Debug("Removed previous samples.", "count", n)
		}
	}

	dataFile := req.DataFile
	if dataFile == "" {
		dataFile = paths.DataFile(outputBase)
		if err := standata.Write(dataFile, req.Data); err != nil {
			return outcome, nil, fmt.Errorf("failed to write data: %w", err)
		}
		logger.Debug("Data written.", "path", dataFile)
	}

	cmds := executor.BuildCommands(executor.Request{
		Executable:    m.Executable(),
		DataFile:      dataFile,
		OutputBase:    outputBase,
		Chains:        req.Chains,
		SampleOptions: req.SampleOptions,
		OutputOptions: req.OutputOptions,
		ChainOptions:  req.ChainOptions,
	})
	if req.DebugCommands {
		for _, c := range cmds {
			logger.Info("Chain command.", "chain", c.ChainID, "command", c.String())
		}
	}

	return outcome, s.Executor.Run(ctx, cmds), nil
}

// DataFromGo converts a Go value into model data for SampleRequest.Data.
// Structs need `cty` field tags; maps and slices need concrete element types.
func DataFromGo(v any) (cty.Value, error) {
	return standata.FromGo(v)
}

// FindSamples returns the sample files under outputBase, sorted by chain id.
func FindSamples(outputBase string) ([]string, error) {
	return fsutil.FindSamples(outputBase)
}

// FindModelSamples returns the sample files under m's default output base.
func FindModelSamples(m *Model) ([]string, error) {
	return fsutil.FindSamples(m.OutputBase())
}

// IsBuildError reports whether err is or wraps a *BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}
