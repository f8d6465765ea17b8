package executor

import (
	"context"

	"github.com/vk/stanrun/internal/ctxlog"
)

// worker is the core processing loop for a single concurrent worker. Each
// index it receives is owned exclusively by this worker, so results[i] is
// written without locking.
func (e *Executor) worker(ctx context.Context, cmds []ChainCommand, results []Result, readyChan <-chan int, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for i := range readyChan {
		cmd := cmds[i]
		workerLogger := logger.With("workerID", workerID, "chain", cmd.ChainID)
		res := Result{ChainID: cmd.ChainID, LogPath: cmd.LogPath}

		if err := ctx.Err(); err != nil {
			workerLogger.Warn("Context canceled, skipping chain.")
			res.Err = err
			results[i] = res
			e.notifyFinished(ctx, res)
			continue
		}

		workerLogger.Debug("Worker picked up chain for execution.")
		e.notifyStarted(ctx, cmd)

		if err := e.runner.Run(ctx, cmd); err != nil {
			workerLogger.Warn("Chain failed.", "error", err, "log", cmd.LogPath)
			res.Err = err
		} else {
			workerLogger.Info("Chain finished.", "samples", cmd.SamplePath)
			res.SamplePath = cmd.SamplePath
		}

		results[i] = res
		e.notifyFinished(ctx, res)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

func (e *Executor) notifyStarted(ctx context.Context, cmd ChainCommand) {
	if e.notifier != nil {
		e.notifier.ChainStarted(ctx, cmd)
	}
}

func (e *Executor) notifyFinished(ctx context.Context, res Result) {
	if e.notifier != nil {
		e.notifier.ChainFinished(ctx, res)
	}
}
