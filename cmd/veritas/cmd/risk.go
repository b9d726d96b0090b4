package cmd

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
	"github.com/hugo-lorenzo-mato/veritas/internal/service"
)

var riskCmd = &cobra.Command{
	Use:   "risk <agent-id> <reports.json>",
	Short: "Compute the longitudinal risk score for an agent",
	Long: `Analyze the reports file and compute the aggregated risk score for the
given agent. The score combines historical distrust, recent detection
confidence and deception frequency.`,
	Args: cobra.ExactArgs(2),
	RunE: runRisk,
}

var riskOutput string

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.Flags().StringVarP(&riskOutput, "output", "o", "json",
		"output format (json, yaml)")
}

func runRisk(cmd *cobra.Command, args []string) error {
	agentID := core.AgentID(args[0])

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

	reports, err := service.LoadReports(args[1])
	if err != nil {
		return err
	}

	known := make(map[core.AgentID]bool, len(reports))
	for _, r := range reports {
		known[r.AgentID] = true
	}
	if !known[agentID] {
		return fmt.Errorf("agent %q not found in %s%s", agentID, args[1], suggestAgents(string(agentID), known))
	}

	if _, err := verifier.AnalyzeCorpus(cmd.Context(), reports); err != nil {
		return err
	}

	return writeOutput(verifier.Analyzer().CalculateRiskScore(agentID), riskOutput)
}

// suggestAgents fuzzy-matches the requested ID against known agent IDs.
func suggestAgents(query string, known map[core.AgentID]bool) string {
	candidates := make([]string, 0, len(known))
	for id := range known {
		candidates = append(candidates, string(id))
	}

	matches := fuzzy.Find(query, candidates)
	if len(matches) == 0 {
		return ""
	}

	names := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		names = append(names, m.Str)
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(names, ", "))
}
