// Package paths derives the file names a model produces from its source
// path: the compiled executable, the default output base, the data file and
// the per-chain sample and log files.
package paths
