package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vk/stanrun/internal/app"
	"github.com/vk/stanrun/internal/cli"
	"github.com/vk/stanrun/internal/hcl"
)

// exitChainFailure is returned when the run finished but some chains failed.
const exitChainFailure = 3

// main is the entrypoint for the stanrun application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// A .env file may carry CMDSTAN_HOME; it is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Stdout, os.Args[1:])
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps run errors to process exit codes and reports them on stderr.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, err)
	var chainErr *app.ChainFailureError
	if errors.As(err, &chainErr) {
		return exitChainFailure
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	loader := hcl.NewLoader()
	return app.NewApp(outW, cfg, loader).Run(ctx)
}
