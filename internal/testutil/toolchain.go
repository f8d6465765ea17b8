package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeMake stands in for the toolchain's make. It "compiles" <target>.stan
// by copying the fake sampler to <target>, honouring make's timestamp rule.
const fakeMake = `#!/bin/sh
target="$1"
src="$target.stan"
if [ ! -f "$src" ]; then
  echo "make: *** No rule to make target '$target'.  Stop." >&2
  exit 2
fi
if grep -q "COMPILE_ERROR" "$src"; then
  echo "Semantic error in '$src': COMPILE_ERROR" >&2
  exit 2
fi
if [ -f "$target" ] && [ ! "$src" -nt "$target" ]; then
  echo "make: '$target' is up to date."
  exit 0
fi
cp "__HOME__/sampler.sh" "$target"
chmod +x "$target"
echo "--- Linking model $target ---"
`

// fakeSampler mimics the sampler's command line: it rejects unknown
// arguments named bogus=*, requires the data file and writes a tiny CSV to
// the output file.
const fakeSampler = `#!/bin/sh
id=""
data=""
out=""
section=""
delay=""
for arg in "$@"; do
  case "$arg" in
    bogus=*)
      echo "$arg is either mistyped or misplaced." >&2
      exit 64
      ;;
    delay=*) delay="${arg#delay=}" ;;
    id=*) id="${arg#id=}" ;;
    data) section="data" ;;
    output) section="output" ;;
    file=*)
      if [ "$section" = "data" ]; then data="${arg#file=}"; else out="${arg#file=}"; fi
      ;;
  esac
done
echo "method = sample"
echo "id = $id"
if [ -n "$delay" ]; then sleep "$delay"; fi
if [ ! -f "$data" ]; then
  echo "Error reading data file: $data" >&2
  exit 70
fi
echo "lp__,theta" > "$out"
echo "-7.3,0.$id" >> "$out"
echo "Chain $id finished"
`

// Toolchain is a throwaway toolchain home with a fake make.
type Toolchain struct {
	Home string
	Make string
}

// SkipIfNoShell skips tests that rely on the shell scripts above.
func SkipIfNoShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skip on windows: fake toolchain is a POSIX shell script")
	}
}

// NewToolchain creates a fake toolchain home in a temporary directory.
func NewToolchain(t *testing.T) *Toolchain {
	t.Helper()
	SkipIfNoShell(t)

	home := t.TempDir()
	makePath := filepath.Join(home, "fake-make")
	script := strings.ReplaceAll(fakeMake, "__HOME__", home)
	require.NoError(t, os.WriteFile(makePath, []byte(script), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "sampler.sh"), []byte(fakeSampler), 0o755))

	return &Toolchain{Home: home, Make: makePath}
}

// WriteModel writes a model source file named name+".stan" into dir and
// returns its path.
func WriteModel(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".stan")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
