//go:build windows

package paths

// ExeSuffix is appended to executable names on this platform.
const ExeSuffix = ".exe"
