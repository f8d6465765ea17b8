// Package notify provides executor.Notifier implementations that report
// chain progress: to the log, to in-process counters, and to a socket.io
// endpoint.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/executor"
)

// Event is the payload sent for a chain event.
type Event struct {
	ChainID    int    `json:"chain_id"`
	SamplePath string `json:"sample_path,omitempty"`
	LogPath    string `json:"log_path"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

func startedEvent(cmd executor.ChainCommand) Event {
	return Event{ChainID: cmd.ChainID, LogPath: cmd.LogPath}
}

func finishedEvent(res executor.Result) Event {
	ev := Event{ChainID: res.ChainID, SamplePath: res.SamplePath, LogPath: res.LogPath, OK: res.OK()}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}

// Log writes chain events to the context logger.
type Log struct{}

func (Log) ChainStarted(ctx context.Context, cmd executor.ChainCommand) {
	ctxlog.FromContext(ctx).Debug("Chain started.", "chain", cmd.ChainID, "log", cmd.LogPath)
}

func (Log) ChainFinished(ctx context.Context, res executor.Result) {
	logger := ctxlog.FromContext(ctx)
	if res.OK() {
		logger.Debug("Chain succeeded.", "chain", res.ChainID, "samples", res.SamplePath)
		return
	}
	logger.Debug("Chain produced no samples.", "chain", res.ChainID, "log", res.LogPath)
}

// Counter tracks how many chains are running and how many have finished.
type Counter struct {
	started   sync.Map
	running   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (c *Counter) ChainStarted(_ context.Context, cmd executor.ChainCommand) {
	c.started.Store(cmd.ChainID, struct{}{})
	c.running.Add(1)
}

func (c *Counter) ChainFinished(_ context.Context, res executor.Result) {
	// Chains skipped on cancellation were never started.
	if _, started := c.started.LoadAndDelete(res.ChainID); started {
		c.running.Add(-1)
	}
	if res.OK() {
		c.succeeded.Add(1)
	} else {
		c.failed.Add(1)
	}
}

// Snapshot is a point-in-time view of a Counter.
type Snapshot struct {
	Running   int64 `json:"running"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Snapshot returns the current counts.
func (c *Counter) Snapshot() Snapshot {
	return Snapshot{Running: c.running.Load(), Succeeded: c.succeeded.Load(), Failed: c.failed.Load()}
}

// Multi fans events out to several notifiers in order.
type Multi []executor.Notifier

func (m Multi) ChainStarted(ctx context.Context, cmd executor.ChainCommand) {
	for _, n := range m {
		n.ChainStarted(ctx, cmd)
	}
}

func (m Multi) ChainFinished(ctx context.Context, res executor.Result) {
	for _, n := range m {
		n.ChainFinished(ctx, res)
	}
}
