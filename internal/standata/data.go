// Package standata writes model data in the toolchain's JSON data format.
package standata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Marshal encodes data as a JSON object. A null value encodes as an empty
// object, for models without data.
func Marshal(data cty.Value) ([]byte, error) {
	if data.IsNull() {
		return []byte("{}"), nil
	}
	ty := data.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("data must be an object, got %s", ty.FriendlyName())
	}
	if !data.IsWhollyKnown() {
		return nil, fmt.Errorf("data contains unknown values")
	}
	return ctyjson.Marshal(data, ty)
}

// Write encodes data and writes it to path, creating parent directories.
func Write(path string, data cty.Value) error {
	buf, err := Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", path, err)
	}
	return nil
}

// FromGo converts a Go value into a cty value. Structs need `cty` field tags;
// maps and slices must have concrete element types.
func FromGo(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot infer data type from %T: %w", v, err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %T to data: %w", v, err)
	}
	return val, nil
}
