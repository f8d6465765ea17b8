package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stanrun/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
	}{
		{
			name: "positional path with defaults",
			args: []string{"runs/"},
			want: &app.Config{RunPath: "runs/", Make: "make", ReportFormat: "text", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "long flag wins over positional",
			args: []string{"-run", "a.hcl", "b.hcl"},
			want: &app.Config{RunPath: "a.hcl", Make: "make", ReportFormat: "text", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all options",
			args: []string{
				"-r", "run.hcl", "--toolchain-home", "/opt/cmdstan", "--make", "mingw32-make",
				"--workers", "8", "--compile-only", "--dry-run", "--report-format", "none",
				"--healthcheck-port", "8080", "--notify-url", "http://localhost:3000",
				"--log-format", "JSON", "--log-level", "DEBUG",
			},
			want: &app.Config{
				RunPath: "run.hcl", ToolchainHome: "/opt/cmdstan", Make: "mingw32-make",
				Workers: 8, CompileOnly: true, DryRun: true,
				HealthcheckPort: 8080, NotifyURL: "http://localhost:3000",
				LogFormat: "json", LogLevel: "debug",
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path prints usage", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"--nope"}, wantCode: 2},
		{name: "bad log format", args: []string{"--log-format", "xml", "r"}, wantCode: 2},
		{name: "bad log level", args: []string{"--log-level", "trace", "r"}, wantCode: 2},
		{name: "bad report format", args: []string{"--report-format", "csv", "r"}, wantCode: 2},
		{name: "dry run without compile only", args: []string{"--dry-run", "r"}, wantCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)

			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
