package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// samplePattern matches the sample files of output base name, capturing the
// chain id.
func samplePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `_chain_(\d+)\.csv$`)
}

// FindSamples returns the existing sample files of outputBase, that is the
// files named <base>_chain_<digits>.csv in the directory of outputBase,
// sorted by chain id. A missing directory yields no files and no error.
func FindSamples(outputBase string) ([]string, error) {
	dir, name := filepath.Split(outputBase)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	re := samplePattern(name)
	type match struct {
		path string
		id   int
	}
	var matches []match
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			// Too many digits for an int; still a sample file.
			id = -1
		}
		matches = append(matches, match{path: filepath.Join(filepath.Dir(outputBase), e.Name()), id: id})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].id < matches[j].id })

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = m.path
	}
	return files, nil
}

// RemoveSamples deletes the sample files of outputBase and returns how many
// were removed. Files that vanish in the meantime are not an error.
func RemoveSamples(outputBase string) (int, error) {
	files, err := FindSamples(outputBase)
	if err != nil {
		return 0, err
	}
	removed := 0
	var errs []error
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
