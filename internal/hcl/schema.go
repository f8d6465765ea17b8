package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all top-level blocks from any file.
type fileRoot struct {
	Models  []*modelBlock  `hcl:"model,block"`
	Samples []*sampleBlock `hcl:"sample,block"`
}

// modelBlock represents a `model` block.
type modelBlock struct {
	Name          string `hcl:"name,label"`
	Source        string `hcl:"source"`
	ToolchainHome string `hcl:"toolchain_home,optional"`
}

// sampleBlock represents a `sample` block. The label names the model.
// Expression fields are evaluated after decoding; when an attribute is
// absent gohcl supplies a static null expression.
type sampleBlock struct {
	Model            string         `hcl:"model,label"`
	Chains           int            `hcl:"chains"`
	OutputBase       string         `hcl:"output_base,optional"`
	DataFile         string         `hcl:"data_file,optional"`
	Data             hcl.Expression `hcl:"data,optional"`
	RmSamples        *bool          `hcl:"rm_samples,optional"`
	SampleOptions    hcl.Expression `hcl:"sample_options,optional"`
	OutputOptions    hcl.Expression `hcl:"output_options,optional"`
	DebugCommands    bool           `hcl:"debug_commands,optional"`
	DebugCompilation bool           `hcl:"debug_compilation,optional"`
}
