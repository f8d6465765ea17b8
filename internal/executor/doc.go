// Package executor runs the sampling chains of one request concurrently.
//
// Each chain is an independent external process with its own sample and log
// file. A fixed pool of workers drains a channel of chain indices and writes
// every outcome into a slot addressed by that index, so results come back in
// chain order no matter which process finishes first. A failing chain is
// recorded in its Result and never stops the others.
package executor
