package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// SourceExt is the extension of model source files.
const SourceExt = ".stan"

// ErrInvalidExtension is returned when a source path does not end in SourceExt.
var ErrInvalidExtension = errors.New("invalid source extension")

// CheckExtension returns an error wrapping ErrInvalidExtension unless source
// ends in SourceExt.
func CheckExtension(source string) error {
	if ext := filepath.Ext(source); ext != SourceExt {
		return fmt.Errorf("%w: %q has extension %q, expected %q", ErrInvalidExtension, source, ext, SourceExt)
	}
	return nil
}

// Executable returns the path of the compiled executable for source. When
// check is set the extension is verified first.
func Executable(source string, check bool) (string, error) {
	if check {
		if err := CheckExtension(source); err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(source, SourceExt) + ExeSuffix, nil
}

// OutputBase returns source without its extension.
func OutputBase(source string) string {
	return strings.TrimSuffix(source, SourceExt)
}

// SampleFile returns the sample CSV path of chain id. Chain ids start at 1.
func SampleFile(base string, id int) string {
	return chainFile(base, id, ".csv")
}

// LogFile returns the log path of chain id.
func LogFile(base string, id int) string {
	return chainFile(base, id, ".log")
}

// DataFile returns the path the data for base is written to.
func DataFile(base string) string {
	return base + ".data.json"
}

func chainFile(base string, id int, ext string) string {
	return base + "_chain_" + strconv.Itoa(id) + ext
}
