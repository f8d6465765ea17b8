package hcl

import (
	"fmt"
	"path/filepath"

	"github.com/vk/stanrun/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// translateModel converts a `model` block into the agnostic model.
func (l *Loader) translateModel(b *modelBlock, baseDir string) *config.ModelDef {
	return &config.ModelDef{
		Name:          b.Name,
		Source:        resolvePath(baseDir, b.Source),
		ToolchainHome: b.ToolchainHome,
	}
}

// translateSample converts a `sample` block into the agnostic model,
// evaluating its data and option expressions.
func (l *Loader) translateSample(b *sampleBlock, baseDir string) (*config.SampleDef, error) {
	def := &config.SampleDef{
		Model:            b.Model,
		Chains:           b.Chains,
		OutputBase:       resolvePath(baseDir, b.OutputBase),
		DataFile:         resolvePath(baseDir, b.DataFile),
		RmSamples:        b.RmSamples,
		DebugCommands:    b.DebugCommands,
		DebugCompilation: b.DebugCompilation,
		Data:             cty.NullVal(cty.DynamicPseudoType),
	}

	if b.Data != nil {
		val, diags := b.Data.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("sample %q: data: %w", b.Model, diags)
		}
		def.Data = val
	}

	var err error
	if def.SampleOptions, err = optionSetFromExpr(b.SampleOptions); err != nil {
		return nil, fmt.Errorf("sample %q: sample_options: %w", b.Model, err)
	}
	if def.OutputOptions, err = optionSetFromExpr(b.OutputOptions); err != nil {
		return nil, fmt.Errorf("sample %q: output_options: %w", b.Model, err)
	}
	return def, nil
}

// resolvePath makes p relative to baseDir unless it is empty or absolute.
func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
