// Package report renders the outcome of sampling jobs for the terminal.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vk/stanrun/internal/executor"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatYAML = "yaml"
	FormatText = "text"
)

// Entry summarises one sampling job.
type Entry struct {
	Model  string  `yaml:"model"`
	Source string  `yaml:"source"`
	Build  string  `yaml:"build"`
	Chains []Chain `yaml:"chains"`
}

// Chain summarises one chain of a job.
type Chain struct {
	ID      int    `yaml:"id"`
	OK      bool   `yaml:"ok"`
	Samples string `yaml:"samples,omitempty"`
	Log     string `yaml:"log"`
}

// Chains converts executor results into report chains.
func Chains(results []executor.Result) []Chain {
	out := make([]Chain, len(results))
	for i, r := range results {
		out[i] = Chain{ID: r.ChainID, OK: r.OK(), Samples: r.SamplePath, Log: r.LogPath}
	}
	return out
}

// Failed returns the number of failed chains across entries.
func Failed(entries []Entry) int {
	n := 0
	for _, e := range entries {
		for _, c := range e.Chains {
			if !c.OK {
				n++
			}
		}
	}
	return n
}

// Write renders entries to w in the given format.
func Write(w io.Writer, format string, entries []Entry) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"runs": entries}); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case FormatText:
		return writeText(w, entries)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\tbuild: %s\n", e.Model, e.Source, e.Build)
		for _, c := range e.Chains {
			status := "ok"
			target := c.Samples
			if !c.OK {
				status = "FAILED"
				target = c.Log
			}
			fmt.Fprintf(tw, "  chain %d\t%s\t%s\n", c.ID, status, target)
		}
	}
	return tw.Flush()
}
