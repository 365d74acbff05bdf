package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-model/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Load VHDL sources and report what the model holds",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexCmd,
}

func init() {
	indexCmd.Flags().Bool("json", false, "print the run summary as JSON")
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
	infoColor   = color.New(color.FgBlue)
	okColor     = color.New(color.FgGreen, color.Bold)
)

func runIndexCmd(cmd *cobra.Command, args []string) error {
	result, _, err := runIndex(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		summary := struct {
			RunID        string                  `json:"run_id"`
			Stats        indexer.ExtractionStats `json:"stats"`
			ChangedFiles []string                `json:"changed_files,omitempty"`
			ParseErrors  []indexer.ParseError    `json:"parse_errors,omitempty"`
		}{result.RunID, result.Stats, result.ChangedFiles, result.ParseErrors}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printStats(out, result)
	printParseErrors(out, result.ParseErrors)
	return nil
}

func printStats(out io.Writer, result *indexer.Result) {
	s := result.Stats
	headerColor.Fprintf(out, "Indexed %d files into %d libraries\n", s.Files, s.Libraries)
	rows := []struct {
		label string
		n     int
	}{
		{"entities", s.Entities},
		{"architectures", s.Architectures},
		{"packages", s.Packages},
		{"package bodies", s.PackageBodies},
		{"contexts", s.Contexts},
		{"configurations", s.Configurations},
		{"types", s.Types},
		{"subtypes", s.Subtypes},
		{"objects", s.Objects},
		{"processes", s.Processes},
		{"instances", s.Instances},
		{"symbols", s.Symbols},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %-15s %d\n", r.label, r.n)
	}
	if len(result.ChangedFiles) > 0 {
		fmt.Fprintf(out, "  %-15s %d\n", "re-extracted", len(result.ChangedFiles))
	}
}

func printParseErrors(out io.Writer, errs []indexer.ParseError) {
	if len(errs) == 0 {
		return
	}
	errorColor.Fprintf(out, "\n%d parse errors:\n", len(errs))
	for _, pe := range errs {
		fmt.Fprintf(out, "  %s\n", pe.Error())
	}
}
