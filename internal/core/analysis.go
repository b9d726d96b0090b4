package core

import "time"

// DeceptionType is a named deception pattern detected in agent reporting.
// The label spellings are part of the stored-data contract and must not change.
type DeceptionType string

const (
	DeceptionOverconfidence   DeceptionType = "overconfidence"
	DeceptionExaggeration     DeceptionType = "exaggeration"
	DeceptionImpossibleClaims DeceptionType = "impossible_claims"
	DeceptionQualityInflation DeceptionType = "quality-inflation"
	DeceptionInconsistency    DeceptionType = "inconsistency"
	DeceptionIssueHiding      DeceptionType = "issue_hiding"
	DeceptionCherryPicking    DeceptionType = "cherry_picking"
	DeceptionContradictory    DeceptionType = "contradictory_statements"
	DeceptionFabrication      DeceptionType = "fabrication"
	DeceptionGaslighting      DeceptionType = "gaslighting"
	DeceptionDiscrediting     DeceptionType = "discrediting_others"
)

// AllDeceptionTypes returns the taxonomy in detection order.
func AllDeceptionTypes() []DeceptionType {
	return []DeceptionType{
		DeceptionOverconfidence,
		DeceptionExaggeration,
		DeceptionImpossibleClaims,
		DeceptionQualityInflation,
		DeceptionInconsistency,
		DeceptionIssueHiding,
		DeceptionCherryPicking,
		DeceptionContradictory,
		DeceptionFabrication,
		DeceptionGaslighting,
		DeceptionDiscrediting,
	}
}

// DeceptionAnalysis is the immutable result of analyzing one agent's reports.
//
// TruthScore is derived solely from DeceptionTypes membership (fixed penalty
// per label); Confidence is the clamped sum of per-signal contributions.
// Both are always in [0,1].
type DeceptionAnalysis struct {
	ID      string  `json:"id"`
	AgentID AgentID `json:"agentId"`

	// ReportID is set when the analysis originated from a single-report call.
	ReportID ReportID `json:"reportId,omitempty"`

	TruthScore        float64         `json:"truthScore"`
	DeceptionDetected bool            `json:"deceptionDetected"`
	DeceptionTypes    []DeceptionType `json:"deceptionType"`
	Confidence        float64         `json:"confidence"`

	// Evidence records why each label fired: discrepancy magnitudes, counts
	// and flags keyed by diagnostic name.
	Evidence map[string]any `json:"evidence"`

	// Recommendations are deterministic given DeceptionTypes and Confidence.
	Recommendations []string `json:"recommendations"`

	AnalyzedAt time.Time `json:"analyzedAt"`
}

// HasType reports whether the analysis carries the given label.
func (a DeceptionAnalysis) HasType(t DeceptionType) bool {
	for _, dt := range a.DeceptionTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// RiskLevel buckets an agent's longitudinal deception risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)
