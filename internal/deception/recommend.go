package deception

import "github.com/hugo-lorenzo-mato/veritas/internal/core"

// recommendationTexts maps each label to its remediation string. The strings
// are fixed templates: recommendations must be deterministic given the fired
// label set and confidence.
var recommendationTexts = map[core.DeceptionType]string{
	core.DeceptionOverconfidence:   "Require independent verification of claimed successes before accepting reports",
	core.DeceptionExaggeration:     "Re-measure claimed performance improvements against recorded benchmarks",
	core.DeceptionImpossibleClaims: "Reject performance claims pending reproduction; gains exceed plausible limits",
	core.DeceptionQualityInflation: "Cross-check self-assessed quality scores with automated static analysis",
	core.DeceptionInconsistency:    "Investigate high variance in reported results; request raw measurement data",
	core.DeceptionIssueHiding:      "Audit recent task logs for suppressed errors and warnings",
	core.DeceptionCherryPicking:    "Require complete metric sets in reports; partial metrics suggest selective disclosure",
	core.DeceptionContradictory:    "Reconcile contradictory statements across this agent's reports on the same task",
	core.DeceptionFabrication:      "Quarantine recent reports and demand reproducible evidence for each claim",
	core.DeceptionGaslighting:      "Compare this agent's account of other agents' work against their own reports",
	core.DeceptionDiscrediting:     "Review systematic disagreement with peers; consider excluding cross-agent assessments",
}

const criticalEscalation = "CRITICAL: escalate for manual review and suspend autonomous task acceptance"

// recommendations produces remediation strings in fired-label order, plus a
// single critical escalation once confidence crosses the configured bar.
func recommendations(labels []core.DeceptionType, confidence float64, thr Thresholds) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels)+1)
	for _, label := range labels {
		if text, ok := recommendationTexts[label]; ok {
			out = append(out, text)
		}
	}
	if confidence > thr.CriticalConfidence {
		out = append(out, criticalEscalation)
	}
	return out
}
