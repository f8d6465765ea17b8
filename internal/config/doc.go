// Package config defines the format-agnostic model of a run file: the models
// to compile and the sampling jobs to run against them, along with the
// Loader interface that concrete formats implement.
//
// The `config.Model` is the single source of truth for the `app` package.
// The HCL implementation lives in the `hcl` package.
package config
