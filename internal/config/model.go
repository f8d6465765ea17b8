package config

import (
	"fmt"

	"github.com/vk/stanrun/internal/options"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of all loaded run files.
type Model struct {
	Models  map[string]*ModelDef
	Samples []*SampleDef
}

// ModelDef is the format-agnostic representation of a `model` block.
type ModelDef struct {
	Name          string
	Source        string
	ToolchainHome string
}

// SampleDef is the format-agnostic representation of a `sample` block.
type SampleDef struct {
	Model            string
	Chains           int
	OutputBase       string
	DataFile         string
	Data             cty.Value
	RmSamples        *bool
	SampleOptions    options.Set
	OutputOptions    options.Set
	DebugCommands    bool
	DebugCompilation bool
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{Models: make(map[string]*ModelDef)}
}

// Validate checks cross references between blocks.
func (m *Model) Validate() error {
	for _, s := range m.Samples {
		if _, ok := m.Models[s.Model]; !ok {
			return fmt.Errorf("sample block references unknown model %q", s.Model)
		}
		if s.Chains < 1 {
			return fmt.Errorf("sample block for model %q: chains must be at least 1, got %d", s.Model, s.Chains)
		}
	}
	return nil
}
