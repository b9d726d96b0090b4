package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/service"
)

var collusionCmd = &cobra.Command{
	Use:   "collusion <reports.json>",
	Short: "Detect coordinated deception across agents",
	Long: `Run collusion detection over a file of agent reports. Flags groups of
agents that submit synchronized reports or identical implausible claims.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollusion,
}

var collusionOutput string

func init() {
	rootCmd.AddCommand(collusionCmd)
	collusionCmd.Flags().StringVarP(&collusionOutput, "output", "o", "json",
		"output format (json, yaml)")
}

func runCollusion(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	verifier, cleanup, err := buildVerifier(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	reports, err := service.LoadReports(args[0])
	if err != nil {
		return err
	}

	return writeOutput(verifier.Analyzer().DetectCollusion(reports), collusionOutput)
}
