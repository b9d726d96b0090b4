package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a veritas workspace",
	Long: `Initialize a veritas workspace in the current directory.
Creates the .veritas directory with a default configuration file.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, ".veritas")
	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration already exists, use --force to overwrite")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating .veritas directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(config.DefaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	if !quiet {
		fmt.Printf("Initialized veritas workspace: %s\n", configPath)
	}
	return nil
}
