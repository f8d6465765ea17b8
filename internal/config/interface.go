package config

import "context"

// Loader is the interface for a format-specific run file loader.
type Loader interface {
	// Load reads every run file found under paths and merges them into one
	// Model. Relative file references are resolved against the directory of
	// the file that contains them.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
