package deception

import "github.com/hugo-lorenzo-mato/veritas/internal/core"

// RiskWeights controls how historical analyses fold into a single risk score.
// The three weights should sum to 1.
type RiskWeights struct {
	Distrust   float64 `mapstructure:"distrust"`   // weight of 1 - mean truth score
	Confidence float64 `mapstructure:"confidence"` // weight of mean detection confidence
	Frequency  float64 `mapstructure:"frequency"`  // weight of deception-detected rate
}

// DefaultRiskWeights returns the baseline 0.4/0.3/0.3 split.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{Distrust: 0.4, Confidence: 0.3, Frequency: 0.3}
}

// RiskResult summarizes an agent's longitudinal deception risk.
type RiskResult struct {
	RiskScore      float64        `json:"riskScore"`
	RiskLevel      core.RiskLevel `json:"riskLevel"`
	RecentPatterns []string       `json:"recentPatterns"`
}

// recentPatternWindow is how many trailing analyses feed recentPatterns.
const recentPatternWindow = 5

// CalculateRiskScore derives a rolling risk score and level from the agent's
// stored analysis history. An agent with no history is low risk by
// definition.
func (a *Analyzer) CalculateRiskScore(agentID core.AgentID) RiskResult {
	history := a.history.ForAgent(agentID)
	if len(history) == 0 {
		return RiskResult{RiskScore: 0, RiskLevel: core.RiskLow, RecentPatterns: []string{}}
	}

	truthSum := 0.0
	confidenceSum := 0.0
	detected := 0
	for _, analysis := range history {
		truthSum += analysis.TruthScore
		confidenceSum += analysis.Confidence
		if analysis.DeceptionDetected {
			detected++
		}
	}

	n := float64(len(history))
	w := a.riskWeights
	score := w.Distrust*(1-truthSum/n) + w.Confidence*(confidenceSum/n) + w.Frequency*(float64(detected)/n)

	return RiskResult{
		RiskScore:      score,
		RiskLevel:      riskLevel(score),
		RecentPatterns: recentPatterns(history),
	}
}

func riskLevel(score float64) core.RiskLevel {
	switch {
	case score < 0.3:
		return core.RiskLow
	case score < 0.5:
		return core.RiskMedium
	case score < 0.7:
		return core.RiskHigh
	default:
		return core.RiskCritical
	}
}

// recentPatterns collects the unique labels across the trailing analyses, in
// first-occurrence order.
func recentPatterns(history []core.DeceptionAnalysis) []string {
	start := len(history) - recentPatternWindow
	if start < 0 {
		start = 0
	}

	seen := make(map[core.DeceptionType]bool)
	patterns := []string{}
	for _, analysis := range history[start:] {
		for _, label := range analysis.DeceptionTypes {
			if !seen[label] {
				seen[label] = true
				patterns = append(patterns, string(label))
			}
		}
	}
	return patterns
}
