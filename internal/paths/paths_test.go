package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutable(t *testing.T) {
	exe, err := Executable("/models/bernoulli.stan", true)
	require.NoError(t, err)
	assert.Equal(t, "/models/bernoulli"+ExeSuffix, exe)

	_, err = Executable("/models/bernoulli.txt", true)
	require.ErrorIs(t, err, ErrInvalidExtension)
	assert.ErrorContains(t, err, "bernoulli.txt")

	// Without the check the path is passed through.
	exe, err = Executable("/models/bernoulli.txt", false)
	require.NoError(t, err)
	assert.Equal(t, "/models/bernoulli.txt"+ExeSuffix, exe)
}

func TestCheckExtension(t *testing.T) {
	assert.NoError(t, CheckExtension("a/b.stan"))
	assert.ErrorIs(t, CheckExtension("a/b.stan.bak"), ErrInvalidExtension)
	assert.ErrorIs(t, CheckExtension("a/b"), ErrInvalidExtension)
}

func TestDerivedFiles(t *testing.T) {
	base := OutputBase("/tmp/m/eight_schools.stan")
	assert.Equal(t, "/tmp/m/eight_schools", base)
	assert.Equal(t, "/tmp/m/eight_schools_chain_1.csv", SampleFile(base, 1))
	assert.Equal(t, "/tmp/m/eight_schools_chain_12.log", LogFile(base, 12))
	assert.Equal(t, "/tmp/m/eight_schools.data.json", DataFile(base))
}

func TestExecutable_RoundTrip(t *testing.T) {
	for _, p := range []string{"/a/b/model.stan", "rel/x.y.stan", "m.stan"} {
		want, err := Executable(p, true)
		require.NoError(t, err)
		got, err := Executable(OutputBase(p)+SourceExt, true)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(want), filepath.Base(got), p)
		assert.Equal(t, want, got, p)
	}
}
