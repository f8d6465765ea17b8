package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/stanrun/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("stanrun", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
stanrun - Compile Stan models and run their sampling chains concurrently.

Usage:
  stanrun [options] [RUN_PATH]

Arguments:
  RUN_PATH
    Path to a single .hcl run file or a directory containing .hcl files.

Environment:
  CMDSTAN_HOME
    Toolchain home used when neither a model block nor --toolchain-home sets one.

Options:
`)
		flagSet.PrintDefaults()
	}

	runFlag := flagSet.String("run", "", "Path to the run file or directory.")
	rFlag := flagSet.String("r", "", "Path to the run file or directory (shorthand).")
	homeFlag := flagSet.String("toolchain-home", "", "Toolchain home directory. Overrides CMDSTAN_HOME.")
	makeFlag := flagSet.String("make", "make", "Build program invoked inside the toolchain home.")
	workersFlag := flagSet.Int("workers", 0, "Number of chains run concurrently. 0 uses one per CPU.")
	compileOnlyFlag := flagSet.Bool("compile-only", false, "Build the models without sampling.")
	dryRunFlag := flagSet.Bool("dry-run", false, "With --compile-only, log the build commands instead of running them.")
	reportFlag := flagSet.String("report-format", "text", "Run summary format. Options: 'text', 'yaml' or 'none'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	notifyFlag := flagSet.String("notify-url", "", "socket.io server receiving chain events.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *runFlag != "" {
		path = *runFlag
	} else if *rFlag != "" {
		path = *rFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Run path determined.", "path", path)

	if path == "" {
		slog.Debug("No run path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	reportFormat := strings.ToLower(*reportFlag)
	if reportFormat == "none" {
		reportFormat = ""
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RunPath:         path,
		ToolchainHome:   *homeFlag,
		Make:            *makeFlag,
		Workers:         *workersFlag,
		CompileOnly:     *compileOnlyFlag,
		DryRun:          *dryRunFlag,
		ReportFormat:    reportFormat,
		HealthcheckPort: *healthPortFlag,
		NotifyURL:       *notifyFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
