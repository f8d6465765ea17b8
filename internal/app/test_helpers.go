package app

import (
	"os"
	"testing"

	"github.com/vk/stanrun/internal/hcl"
	"github.com/vk/stanrun/internal/testutil"
)

// SetupAppTest creates a new app instance wired to the HCL loader with a
// debug-level logger captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("STANRUN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
