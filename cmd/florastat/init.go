package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/florastat/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/florastat.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented configuration file",
		Long: `Init writes a configuration file holding the built-in defaults: the
species label prefix, the petal_length max override and the box plot
settings. Every setting is commented.

Examples:
  # Create .florastat in the current directory
  florastat init

  # Create the per-user configuration in the XDG config directory
  florastat init --global

  # Print the template instead of writing it
  florastat init --stdout > iris.yaml`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().BoolP("global", "g", false,
		"Write the per-user configuration ("+config.GlobalConfigPath()+")")
	cmd.Flags().Bool("stdout", false,
		"Print the configuration to standard output")
	cmd.MarkFlagsMutuallyExclusive("output", "global", "stdout")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	toStdout, err := flags.GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout {
		_, err := cmd.OutOrStdout().Write(configTemplate)
		return err
	}

	path, err := flags.GetString("output")
	if err != nil {
		return err
	}
	global, err := flags.GetBool("global")
	if err != nil {
		return err
	}
	if global {
		path = config.GlobalConfigPath()
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigFile(path, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", path)
	if !global && path == config.DefaultConfigFile {
		fmt.Fprintln(cmd.OutOrStdout(), "It applies to florastat runs started in this directory.")
	}
	return nil
}

// writeConfigFile writes the template to path, creating parent
// directories. An existing file is only replaced when force is set.
func writeConfigFile(path string, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	mode := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if force {
		mode = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, mode, 0600) //nolint:gosec // Output path is provided by the user
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	if _, err := f.Write(configTemplate); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return f.Close()
}
