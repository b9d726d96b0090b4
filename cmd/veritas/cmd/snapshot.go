package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/service"
	"github.com/hugo-lorenzo-mato/veritas/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import the analysis history",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <reports.json> <snapshot.json>",
	Short: "Analyze reports and export the resulting history",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotExport,
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <snapshot.json> <reports.json>",
	Short: "Import a history snapshot, then analyze reports against it",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotImport,
}

var snapshotImportMode string

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)

	snapshotImportCmd.Flags().StringVar(&snapshotImportMode, "mode", "merge",
		"import mode (merge, replace)")
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
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
	if _, err := verifier.AnalyzeCorpus(cmd.Context(), reports); err != nil {
		return err
	}

	env, err := snapshot.Export(args[1], verifier.Analyzer().History(), appVersion)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Exported %d analyses for %d agents to %s\n",
			env.AnalysisCount, env.AgentCount, args[1])
	}
	return nil
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
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

	env, err := snapshot.Import(args[0], verifier.Analyzer().History(),
		snapshot.ImportMode(snapshotImportMode))
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Imported %d analyses for %d agents from %s\n",
			env.AnalysisCount, env.AgentCount, args[0])
	}

	reports, err := service.LoadReports(args[1])
	if err != nil {
		return err
	}
	result, err := verifier.AnalyzeCorpus(cmd.Context(), reports)
	if err != nil {
		return err
	}
	return writeOutput(result, "json")
}
