package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
	"github.com/robert-at-pretension-io/vhdl-model/internal/validator"
)

var factsCmd = &cobra.Command{
	Use:   "facts <path>",
	Short: "Export the model as relational fact tables (JSON)",
	Long: `Export the model as relational fact tables. With --delta-from and
--delta-out the difference against a previous export is written as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runFacts,
}

func init() {
	factsCmd.Flags().StringP("output", "o", "", "write facts JSON to file (default: stdout)")
	factsCmd.Flags().String("delta-from", "", "previous facts JSON to compute delta from")
	factsCmd.Flags().String("delta-out", "", "write delta JSON to file (requires --delta-from)")
	factsCmd.Flags().StringSlice("file", nil, "only export rows from these source files (repeatable)")
}

func runFacts(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	deltaFrom, _ := cmd.Flags().GetString("delta-from")
	deltaOut, _ := cmd.Flags().GetString("delta-out")
	onlyFiles, _ := cmd.Flags().GetStringSlice("file")
	if (deltaFrom == "") != (deltaOut == "") {
		return fmt.Errorf("--delta-from and --delta-out must be used together")
	}

	result, _, err := runIndex(cmd, args[0])
	if err != nil {
		return err
	}
	for _, pe := range result.ParseErrors {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", pe.Error())
	}

	tables := result.Tables
	var files map[string]bool
	if len(onlyFiles) > 0 {
		files, err = fileSet(onlyFiles)
		if err != nil {
			return err
		}
		tables = facts.FilterTablesByFiles(tables, files)
	}

	if output != "" {
		if err := writeJSON(output, tables); err != nil {
			return fmt.Errorf("writing facts: %w", err)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", tables.Len(), output)
		}
	} else if err := encodeJSON(cmd.OutOrStdout(), tables); err != nil {
		return fmt.Errorf("encoding facts: %w", err)
	}

	if deltaFrom == "" {
		return nil
	}
	prev, err := readTables(deltaFrom)
	if err != nil {
		return fmt.Errorf("reading delta-from: %w", err)
	}
	delta := facts.ComputeDelta(prev, result.Tables)
	if files != nil {
		delta = facts.FilterDeltaByFiles(delta, files)
	}

	v, err := validator.NewDeltaValidator()
	if err != nil {
		return fmt.Errorf("loading delta validator: %w", err)
	}
	if err := v.Validate(delta); err != nil {
		return fmt.Errorf("CRITICAL: Fact delta contract violation: %w", err)
	}
	if err := writeJSON(deltaOut, delta); err != nil {
		return fmt.Errorf("writing delta: %w", err)
	}
	return nil
}

// fileSet holds each --file argument as written and as an absolute path,
// since table paths are relative when the indexed root was.
func fileSet(paths []string) (map[string]bool, error) {
	files := make(map[string]bool, 2*len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[filepath.Clean(p)] = true
		files[abs] = true
	}
	return files, nil
}

func readTables(path string) (facts.Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return facts.Tables{}, err
	}
	defer func() { _ = f.Close() }()

	var tables facts.Tables
	if err := json.NewDecoder(f).Decode(&tables); err != nil {
		return facts.Tables{}, err
	}
	return tables, nil
}

func writeJSON(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return encodeJSON(f, data)
}

func encodeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
