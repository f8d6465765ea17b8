package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stanrun/internal/config"
	"github.com/vk/stanrun/internal/hcl"
	"github.com/vk/stanrun/internal/notify"
	"github.com/vk/stanrun/internal/paths"
	"github.com/vk/stanrun/internal/report"
	"github.com/vk/stanrun/internal/stanmodel"
	"github.com/vk/stanrun/internal/testutil"
)

const bernoulli = `
parameters { real<lower=0,upper=1> theta; }
model { theta ~ beta(1, 1); }
`

// writeRun lays out a model source and a run file referencing it.
func writeRun(t *testing.T, tc *testutil.Toolchain, modelBody, sampleBody string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteModel(t, dir, "bernoulli", modelBody)
	run := fmt.Sprintf(`
model "bernoulli" {
  source         = "bernoulli.stan"
  toolchain_home = %q
}

sample "bernoulli" {
%s
}
`, tc.Home, sampleBody)
	path := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(run), 0o644))
	return path
}

func TestRun_SamplesAndReports(t *testing.T) {
	tc := testutil.NewToolchain(t)
	runPath := writeRun(t, tc, bernoulli, `
  chains         = 3
  data           = { N = 1 }
  sample_options = { num_samples = 10 }
`)

	var out testutil.SafeBuffer
	cfg := &Config{RunPath: runPath, Make: tc.Make, Workers: 2, ReportFormat: report.FormatYAML}
	a := NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background()))

	src := filepath.Join(filepath.Dir(runPath), "bernoulli.stan")
	base := paths.OutputBase(src)
	for id := 1; id <= 3; id++ {
		assert.FileExists(t, paths.SampleFile(base, id))
	}
	assert.Equal(t, notify.Snapshot{Succeeded: 3}, a.Status())
	assert.Contains(t, out.String(), "runs:")
	assert.Contains(t, out.String(), "build: compiled")
	assert.Equal(t, 1, strings.Count(out.String(), "Building model."), "make should run once per job")
}

func TestRun_ChainFailure(t *testing.T) {
	tc := testutil.NewToolchain(t)
	runPath := writeRun(t, tc, bernoulli, `
  chains         = 2
  sample_options = "bogus=1"
`)

	a, logs := SetupAppTest(t, &Config{RunPath: runPath, Make: tc.Make})
	err := a.Run(context.Background())

	var cfe *ChainFailureError
	require.ErrorAs(t, err, &cfe)
	assert.Equal(t, 2, cfe.Failed)
	assert.Equal(t, 2, cfe.Total)
	assert.Equal(t, notify.Snapshot{Failed: 2}, a.Status())
	assert.Contains(t, logs.String(), "Chain produced no samples.")
}

func TestRun_BuildErrorAborts(t *testing.T) {
	tc := testutil.NewToolchain(t)
	runPath := writeRun(t, tc, "COMPILE_ERROR", `  chains = 2`)

	a, _ := SetupAppTest(t, &Config{RunPath: runPath, Make: tc.Make})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error when compiling")
	assert.Equal(t, notify.Snapshot{}, a.Status())
}

func TestRun_CompileOnlyDryRun(t *testing.T) {
	tc := testutil.NewToolchain(t)
	runPath := writeRun(t, tc, bernoulli, `  chains = 2`)

	var out testutil.SafeBuffer
	cfg := &Config{RunPath: runPath, Make: tc.Make, CompileOnly: true, DryRun: true, ReportFormat: report.FormatYAML}
	a := NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background()))

	src := filepath.Join(filepath.Dir(runPath), "bernoulli.stan")
	exe, err := paths.Executable(src, true)
	require.NoError(t, err)
	assert.NoFileExists(t, exe)
	assert.Contains(t, out.String(), "build: skipped")
}

func TestRun_MissingToolchainHome(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteModel(t, dir, "m", bernoulli)
	runPath := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(runPath, []byte(`
model "m" { source = "m.stan" }
sample "m" { chains = 1 }
`), 0o644))
	t.Setenv(stanmodel.HomeEnvVar, "")

	a, _ := SetupAppTest(t, &Config{RunPath: runPath})
	err := a.Run(context.Background())

	var ce *stanmodel.ConfigurationError
	require.True(t, errors.As(err, &ce), "expected a configuration error, got %v", err)
	assert.Equal(t, stanmodel.HomeEnvVar, ce.Variable)
}

func TestResolveHome(t *testing.T) {
	t.Setenv(stanmodel.HomeEnvVar, "/from/env")

	a, _ := SetupAppTest(t, &Config{RunPath: "x"})
	home, err := a.resolveHome(&config.ModelDef{ToolchainHome: "/from/block"})
	require.NoError(t, err)
	assert.Equal(t, "/from/block", home)

	home, err = a.resolveHome(&config.ModelDef{})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", home)

	a.config.ToolchainHome = "/from/flag"
	home, err = a.resolveHome(&config.ModelDef{})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", home)
}

func TestStatusEndpoint(t *testing.T) {
	a, _ := SetupAppTest(t, &Config{RunPath: "x"})
	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap notify.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, notify.Snapshot{}, snap)
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.ErrorContains(t, err, "RunPath")

	_, err = NewConfig(Config{RunPath: "r", DryRun: true})
	assert.ErrorContains(t, err, "dry-run")

	_, err = NewConfig(Config{RunPath: "r", ReportFormat: "xml"})
	assert.ErrorContains(t, err, "invalid report format")

	cfg, err := NewConfig(Config{RunPath: "r", ReportFormat: report.FormatText})
	require.NoError(t, err)
	assert.Equal(t, "r", cfg.RunPath)
}
