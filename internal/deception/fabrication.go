package deception

import (
	"math"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// Fabrication indicator labels.
const (
	IndicatorPerfectResults       = "suspiciously-perfect-results"
	IndicatorInsufficientEvidence = "insufficient-evidence"
	IndicatorFastCompletion       = "unrealistically-fast-completion"
	IndicatorUnrealisticGain      = "unrealistic-performance-improvement"
)

// Single-report fabrication score deltas. The deltas are additive, not
// normalized per-check; a report is fabricated only when the accumulated
// score strictly exceeds fabricatedScoreFloor. An exactly-0.50 accumulation
// (perfect results + missing evidence) deliberately does not trigger.
const (
	perfectResultsDelta       = 0.30
	insufficientEvidenceDelta = 0.20
	fastCompletionDelta       = 0.25
	unrealisticGainDelta      = 0.25

	fabricatedScoreFloor = 0.50

	minEvidenceKeys    = 3
	minPlausibleMillis = 1000
	perfectQualityBar  = 0.95
)

// FabricationResult is the outcome of examining one report in isolation.
type FabricationResult struct {
	IsFabricated bool     `json:"isFabricated"`
	Confidence   float64  `json:"confidence"`
	Indicators   []string `json:"indicators"`
}

// DetectFabrication scores a single report for implausibility signals.
func (a *Analyzer) DetectFabrication(report core.Report) FabricationResult {
	var result FabricationResult
	score := 0.0

	for _, ind := range fabricationIndicators(report, a.thresholds) {
		result.Indicators = append(result.Indicators, ind.label)
		score += ind.delta
	}

	result.IsFabricated = score > fabricatedScoreFloor
	result.Confidence = math.Min(score, 1.0)
	return result
}

type fabricationIndicator struct {
	label string
	delta float64
}

// fabricationIndicators runs the four single-report checks. The same
// predicates are reused by the pattern-level fabrication rule, where each
// indicator counts one unweighted point.
func fabricationIndicators(report core.Report, thr Thresholds) []fabricationIndicator {
	var indicators []fabricationIndicator
	claimed := report.ClaimedOutcome

	if claimed.TestsPass && claimed.NoErrors && claimed.Success &&
		claimed.Quality.CodeQuality > perfectQualityBar {
		indicators = append(indicators, fabricationIndicator{IndicatorPerfectResults, perfectResultsDelta})
	}

	if len(report.Evidence) < minEvidenceKeys {
		indicators = append(indicators, fabricationIndicator{IndicatorInsufficientEvidence, insufficientEvidenceDelta})
	}

	if duration, ok := report.EvidenceFloat(core.EvidenceKeyDuration); ok && duration < minPlausibleMillis {
		indicators = append(indicators, fabricationIndicator{IndicatorFastCompletion, fastCompletionDelta})
	}

	if claimed.Performance.Improvement > thr.ImprovementCeiling {
		indicators = append(indicators, fabricationIndicator{IndicatorUnrealisticGain, unrealisticGainDelta})
	}

	return indicators
}
