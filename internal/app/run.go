package app

import (
	"context"
	"fmt"

	"github.com/vk/stanrun"
	"github.com/vk/stanrun/internal/build"
	"github.com/vk/stanrun/internal/config"
	"github.com/vk/stanrun/internal/executor"
	"github.com/vk/stanrun/internal/notify"
	"github.com/vk/stanrun/internal/report"
	"github.com/vk/stanrun/internal/stanmodel"
)

// Run loads the run files and executes every sample block in declaration
// order. Chains that fail do not abort the run; they are counted and
// surfaced as a *ChainFailureError once the report is written.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx)
		defer a.closeHealthCheckServer(ctx)
	}

	model, err := a.loader.Load(ctx, a.config.RunPath)
	if err != nil {
		return fmt.Errorf("failed to load run files: %w", err)
	}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("invalid run files: %w", err)
	}
	a.logger.Debug("Run files loaded.", "models", len(model.Models), "samples", len(model.Samples))

	if len(model.Samples) == 0 {
		a.logger.Warn("No sample blocks found, nothing to run.")
		return nil
	}

	notifiers := notify.Multi{notify.Log{}, a.counter}
	if a.config.NotifyURL != "" {
		sio, err := notify.DialSocketIO(ctx, a.config.NotifyURL, notify.SocketIOOptions{})
		if err != nil {
			return fmt.Errorf("failed to connect notifier: %w", err)
		}
		defer sio.Close()
		notifiers = append(notifiers, sio)
	}

	exec := executor.New(nil, a.config.Workers, executor.WithNotifier(notifiers))
	sampler := stanrun.NewSampler(&build.Manager{Make: a.config.Make}, exec)
	a.logger.Info("🚀 Starting run.", "samples", len(model.Samples), "workers", exec.Workers())

	entries := make([]report.Entry, 0, len(model.Samples))
	for _, def := range model.Samples {
		entry, err := a.runSample(ctx, sampler, model.Models[def.Model], def)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	a.logger.Info("🏁 Run finished.")

	if a.config.ReportFormat != "" {
		if err := report.Write(a.outW, a.config.ReportFormat, entries); err != nil {
			return err
		}
	}

	if failed := report.Failed(entries); failed > 0 {
		total := 0
		for _, e := range entries {
			total += len(e.Chains)
		}
		return &ChainFailureError{Failed: failed, Total: total}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runSample(ctx context.Context, sampler *stanrun.Sampler, md *config.ModelDef, def *config.SampleDef) (report.Entry, error) {
	logger := a.logger.With("model", md.Name)

	home, err := a.resolveHome(md)
	if err != nil {
		return report.Entry{}, err
	}
	m, err := stanmodel.New(ctx, md.Source, home)
	if err != nil {
		return report.Entry{}, fmt.Errorf("model %q: %w", md.Name, err)
	}

	entry := report.Entry{Model: md.Name, Source: m.SourcePath()}
	if a.config.CompileOnly {
		outcome, err := sampler.Compile(ctx, m, stanrun.CompileOptions{
			Debug:  def.DebugCompilation,
			DryRun: a.config.DryRun,
		})
		if err != nil {
			return report.Entry{}, err
		}
		logger.Info("Model ready.", "build", outcome.Kind.String())
		entry.Build = outcome.Kind.String()
		return entry, nil
	}

	outcome, results, err := sampler.CompileAndSample(ctx, m, stanrun.SampleRequest{
		Data:             def.Data,
		DataFile:         def.DataFile,
		Chains:           def.Chains,
		OutputBase:       def.OutputBase,
		RmSamples:        def.RmSamples,
		SampleOptions:    def.SampleOptions,
		OutputOptions:    def.OutputOptions,
		DebugCommands:    def.DebugCommands,
		DebugCompilation: def.DebugCompilation,
	})
	if err != nil {
		return report.Entry{}, fmt.Errorf("model %q: %w", md.Name, err)
	}
	entry.Build = outcome.Kind.String()
	entry.Chains = report.Chains(results)
	return entry, nil
}

// resolveHome picks the toolchain home: the model block first, then the
// command line, then the environment.
func (a *App) resolveHome(md *config.ModelDef) (string, error) {
	if md.ToolchainHome != "" {
		return md.ToolchainHome, nil
	}
	if a.config.ToolchainHome != "" {
		return a.config.ToolchainHome, nil
	}
	return stanmodel.DefaultHome(nil)
}
