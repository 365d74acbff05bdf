package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a vhdl_model.json configuration file",
	Long: `Create a default vhdl_model.json in dir (default: the current directory).
Pass --toml to write vhdl_model.toml instead. An existing file is kept unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("toml", false, "write vhdl_model.toml")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	useTOML, _ := cmd.Flags().GetBool("toml")
	force, _ := cmd.Flags().GetBool("force")

	name := "vhdl_model.json"
	if useTOML {
		name = "vhdl_model.toml"
	}
	configPath := filepath.Join(dir, name)

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", configPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Library file patterns")
	fmt.Fprintln(out, "  - Third-party libraries")
	fmt.Fprintln(out, "  - Check rule severities")
	return nil
}
