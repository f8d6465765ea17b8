// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle that compiles models and
// samples their chains, decoupled from any specific entrypoint like a CLI.
package app
