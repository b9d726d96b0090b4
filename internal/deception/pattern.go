package deception

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// Analyzer is the core orchestrator: it runs the single-report fabrication
// checks, the per-agent pattern rules and the self-reported cross-agent
// heuristics, folds them into one DeceptionAnalysis and records the result in
// the injected history store.
type Analyzer struct {
	thresholds  Thresholds
	riskWeights RiskWeights
	history     *HistoryStore
	rules       []patternRule
	now         func() time.Time
}

// AnalyzerOption configures the analyzer.
type AnalyzerOption func(*Analyzer)

// WithRiskWeights overrides the default risk aggregation weights.
func WithRiskWeights(weights RiskWeights) AnalyzerOption {
	return func(a *Analyzer) {
		a.riskWeights = weights
	}
}

// WithClock overrides the analysis timestamp source (tests).
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an analyzer with the given thresholds writing to the
// given history store. A nil history store gets a private one.
func NewAnalyzer(thresholds Thresholds, history *HistoryStore, opts ...AnalyzerOption) *Analyzer {
	if history == nil {
		history = NewHistoryStore()
	}
	a := &Analyzer{
		thresholds:  thresholds,
		riskWeights: DefaultRiskWeights(),
		history:     history,
		rules:       patternRules(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// History returns the analyzer's history store.
func (a *Analyzer) History() *HistoryStore {
	return a.history
}

// Thresholds returns the analyzer's threshold set.
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// AnalyzeAgentPattern analyzes an ordered list of one agent's reports and
// appends the resulting analysis to the agent's history.
//
// An empty report list short-circuits to a neutral analysis (truth score 1.0,
// nothing detected) without invoking any sub-check and without touching
// history, so that risk scoring only ever sees analyses backed by data.
func (a *Analyzer) AnalyzeAgentPattern(agentID core.AgentID, reports []core.Report) core.DeceptionAnalysis {
	return a.analyze(agentID, "", reports)
}

// AnalyzeSingleReport analyzes a new report in the context of the agent's
// historical reports, stamping the originating report ID on the result.
func (a *Analyzer) AnalyzeSingleReport(report core.Report, historical []core.Report) core.DeceptionAnalysis {
	combined := make([]core.Report, 0, len(historical)+1)
	combined = append(combined, historical...)
	combined = append(combined, report)
	return a.analyze(report.AgentID, report.ID, combined)
}

func (a *Analyzer) analyze(agentID core.AgentID, reportID core.ReportID, reports []core.Report) core.DeceptionAnalysis {
	analysis := core.DeceptionAnalysis{
		ID:         uuid.NewString(),
		AgentID:    agentID,
		ReportID:   reportID,
		TruthScore: 1.0,
		Evidence:   map[string]any{},
		AnalyzedAt: a.now(),
	}

	if len(reports) == 0 {
		return analysis
	}

	pc := newPatternContext(a.thresholds, reports)

	confidence := 0.0
	penalty := 0.0
	for _, rule := range a.rules {
		fired, evidence := rule.evaluate(pc)
		if !fired {
			continue
		}
		analysis.DeceptionDetected = true
		analysis.DeceptionTypes = append(analysis.DeceptionTypes, rule.label)
		confidence += rule.confidenceDelta
		penalty += rule.truthPenalty
		for k, v := range evidence {
			analysis.Evidence[k] = v
		}
	}

	analysis.Confidence = math.Min(confidence, 1.0)
	analysis.TruthScore = clamp01(1.0 - penalty)
	analysis.Recommendations = recommendations(analysis.DeceptionTypes, analysis.Confidence, a.thresholds)

	a.history.Append(analysis)
	return analysis
}

// GetAgentHistory returns the stored analyses for an agent in chronological
// order.
func (a *Analyzer) GetAgentHistory(agentID core.AgentID) []core.DeceptionAnalysis {
	return a.history.ForAgent(agentID)
}
