package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <reports.json>",
	Short: "Analyze agent reports for deception",
	Long: `Analyze a file of agent completion reports. Reports are grouped per
agent and each group is run through the full deception pattern analysis.
Collusion detection runs across the whole batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeOutput string

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json",
		"output format (json, yaml)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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
	if len(reports) == 0 {
		return fmt.Errorf("no reports found in %s", args[0])
	}

	result, err := verifier.AnalyzeCorpus(cmd.Context(), reports)
	if err != nil {
		return err
	}

	return writeOutput(result, analyzeOutput)
}
