package deception

import "github.com/hugo-lorenzo-mato/veritas/internal/core"

// Selective-reporting pattern names.
const (
	SelectiveAlwaysPositive = "always-positive"
	SelectiveNoErrors       = "no-errors-reported"
)

// SelectiveReportResult is the outcome of the selective-reporting detector.
type SelectiveReportResult struct {
	IsSelective bool           `json:"isSelective"`
	Confidence  float64        `json:"confidence"`
	Evidence    map[string]any `json:"evidence"`
}

// DetectSelectiveReporting looks for reporting streams that are implausibly
// free of failure: either an always-positive success rate or a complete
// absence of error admissions over a long run.
func (a *Analyzer) DetectSelectiveReporting(reports []core.Report) SelectiveReportResult {
	result := SelectiveReportResult{Evidence: map[string]any{}}

	n := len(reports)
	if n < a.thresholds.MinReportsSelective {
		return result
	}

	successes := 0
	errorAdmissions := 0
	for _, r := range reports {
		if r.ClaimedOutcome.Success {
			successes++
		}
		if !r.ClaimedOutcome.NoErrors {
			errorAdmissions++
		}
	}
	successRate := float64(successes) / float64(n)

	if successRate > 0.95 && n > a.thresholds.MinReportsAlwaysPositive {
		result.IsSelective = true
		result.Confidence = 0.8
		result.Evidence["pattern"] = SelectiveAlwaysPositive
		result.Evidence["successRate"] = successRate
		return result
	}

	if errorAdmissions == 0 && n > a.thresholds.MinReportsNoErrors {
		result.IsSelective = true
		result.Confidence = 0.7
		result.Evidence["pattern"] = SelectiveNoErrors
		result.Evidence["reportCount"] = n
		return result
	}

	return result
}
