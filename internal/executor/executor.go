package executor

import (
	"context"
	"runtime"
	"sync"

	"github.com/vk/stanrun/internal/ctxlog"
)

// Result is the outcome of one chain. SamplePath is empty when the chain
// failed; the log file holds the details either way.
type Result struct {
	ChainID    int
	SamplePath string
	LogPath    string
	// Err describes why the chain failed. It is informational: an empty
	// SamplePath is the failure signal.
	Err error
}

// OK reports whether the chain produced a sample file.
func (r Result) OK() bool {
	return r.SamplePath != ""
}

// Runner runs a single chain command to completion.
type Runner interface {
	Run(ctx context.Context, cmd ChainCommand) error
}

// Notifier receives chain lifecycle events. Calls may arrive concurrently.
type Notifier interface {
	ChainStarted(ctx context.Context, cmd ChainCommand)
	ChainFinished(ctx context.Context, res Result)
}

// Executor dispatches chain commands over a fixed-size worker pool.
type Executor struct {
	runner     Runner
	numWorkers int
	notifier   Notifier
}

// Option configures an Executor.
type Option func(*Executor)

// WithNotifier registers n for chain events.
func WithNotifier(n Notifier) Option {
	return func(e *Executor) { e.notifier = n }
}

// New returns an Executor. A nil runner runs real processes; workers <= 0
// uses one worker per CPU.
func New(runner Runner, workers int, opts ...Option) *Executor {
	if runner == nil {
		runner = ProcessRunner{}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Executor{runner: runner, numWorkers: workers}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured pool size.
func (e *Executor) Workers() int {
	return e.numWorkers
}

// Run executes all commands and blocks until every one has terminated. The
// returned slice has one Result per command, in the same order.
func (e *Executor) Run(ctx context.Context, cmds []ChainCommand) []Result {
	logger := ctxlog.FromContext(ctx)
	results := make([]Result, len(cmds))
	if len(cmds) == 0 {
		return results
	}

	workers := min(e.numWorkers, len(cmds))
	readyChan := make(chan int, len(cmds))
	for i := range cmds {
		readyChan <- i
	}
	close(readyChan)

	var wg sync.WaitGroup
	wg.Add(workers)
	logger.Debug("Starting worker pool.", "workers", workers, "chains", len(cmds))
	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			e.worker(ctx, cmds, results, readyChan, workerID)
		}(i)
	}

	logger.Info("Waiting for all chains to complete...", "chains", len(cmds))
	wg.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	logger.Info("All chains completed.", "succeeded", len(cmds)-failed, "failed", failed)
	return results
}
