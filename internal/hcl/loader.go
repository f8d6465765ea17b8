package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/stanrun/internal/config"
	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL run file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl run files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		baseDir := filepath.Dir(file)
		for _, mb := range root.Models {
			if prev, dup := model.Models[mb.Name]; dup {
				return nil, fmt.Errorf("model %q in %s is already defined (source %s)", mb.Name, file, prev.Source)
			}
			model.Models[mb.Name] = l.translateModel(mb, baseDir)
		}
		for _, sb := range root.Samples {
			def, err := l.translateSample(sb, baseDir)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Samples = append(model.Samples, def)
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "models", len(model.Models), "samples", len(model.Samples))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. A path that does not exist is skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
