package executor

import (
	"fmt"
	"strings"

	"github.com/vk/stanrun/internal/options"
	"github.com/vk/stanrun/internal/paths"
)

// ChainCommand is the invocation of one chain together with the files it
// writes.
type ChainCommand struct {
	ChainID    int
	Path       string
	Args       []string
	SamplePath string
	LogPath    string
}

// Argv returns the program followed by its arguments.
func (c ChainCommand) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String renders the command and its redirection like a shell line.
func (c ChainCommand) String() string {
	return fmt.Sprintf("%s >> %s 2>&1", strings.Join(c.Argv(), " "), c.LogPath)
}

// Request describes the chains of one sampling call.
type Request struct {
	Executable    string
	DataFile      string
	OutputBase    string
	Chains        int
	SampleOptions options.Set
	OutputOptions options.Set
	// ChainOptions, when set, adds per-chain sample options such as a seed.
	// They follow the shared SampleOptions.
	ChainOptions func(chainID int) options.Set
}

// BuildCommands returns one command per chain id 1..req.Chains.
func BuildCommands(req Request) []ChainCommand {
	outputTokens := options.Serialize(req.OutputOptions)

	cmds := make([]ChainCommand, 0, max(req.Chains, 0))
	for id := 1; id <= req.Chains; id++ {
		samplePath := paths.SampleFile(req.OutputBase, id)

		sample := req.SampleOptions
		if req.ChainOptions != nil {
			sample = options.Concat(sample, req.ChainOptions(id))
		}
		sampleTokens := options.Serialize(sample)

		args := make([]string, 0, len(sampleTokens)+len(outputTokens)+6)
		args = append(args, "sample")
		args = append(args, sampleTokens...)
		args = append(args, fmt.Sprintf("id=%d", id), "data", "file="+req.DataFile, "output")
		args = append(args, outputTokens...)
		args = append(args, "file="+samplePath)

		cmds = append(cmds, ChainCommand{
			ChainID:    id,
			Path:       req.Executable,
			Args:       args,
			SamplePath: samplePath,
			LogPath:    paths.LogFile(req.OutputBase, id),
		})
	}
	return cmds
}
