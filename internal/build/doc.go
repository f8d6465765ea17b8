// Package build makes sure a model's executable exists and is current by
// running the toolchain's make target for it. Deciding whether a rebuild is
// needed is left to make's own timestamp rules.
package build
