// Package service wires the deception engine to the evidence store and
// exposes the higher-level verification operations consumed by the CLI and
// the REST API.
package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/veritas/internal/adapters/evidence"
	"github.com/hugo-lorenzo-mato/veritas/internal/core"
	"github.com/hugo-lorenzo-mato/veritas/internal/deception"
	"github.com/hugo-lorenzo-mato/veritas/internal/logging"
)

// Evidence bag keys the verifier interprets when building feature vectors.
const (
	evidenceKeyPhase     = "phase"
	evidenceKeySessionID = "sessionId"
)

// corpusParallelism bounds concurrent per-agent analyses. Analyses for
// different agents are independent; same-agent reports are grouped before
// fan-out so per-agent ordering never races.
const corpusParallelism = 8

// Verifier ties the analyzer to evidence persistence. A nil evidence store
// disables persistence: detection and scoring always complete even when
// storage is unavailable.
type Verifier struct {
	analyzer *deception.Analyzer
	store    *evidence.Store
	metrics  *MetricsCollector
	logger   *logging.Logger
}

// VerifierOption configures the verifier.
type VerifierOption func(*Verifier)

// WithEvidenceStore attaches an evidence store.
func WithEvidenceStore(store *evidence.Store) VerifierOption {
	return func(v *Verifier) {
		v.store = store
	}
}

// WithLogger sets the verifier logger.
func WithLogger(logger *logging.Logger) VerifierOption {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// NewVerifier creates a verifier around the given analyzer.
func NewVerifier(analyzer *deception.Analyzer, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		analyzer: analyzer,
		metrics:  NewMetricsCollector(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Analyzer returns the wrapped analyzer.
func (v *Verifier) Analyzer() *deception.Analyzer {
	return v.analyzer
}

// Metrics returns the verification metrics collector.
func (v *Verifier) Metrics() *MetricsCollector {
	return v.metrics
}

// VerifyReport analyzes a new report against the agent's historical reports,
// records metrics and persists the truth record. Persistence failures degrade
// to warnings; the analysis is always returned.
func (v *Verifier) VerifyReport(ctx context.Context, report core.Report, historical []core.Report) core.DeceptionAnalysis {
	analysis := v.analyzer.AnalyzeSingleReport(report, historical)
	v.metrics.Record(analysis)

	if analysis.DeceptionDetected {
		v.logger.Warn("deception detected",
			"agent_id", string(report.AgentID),
			"task_id", string(report.TaskID),
			"truth_score", analysis.TruthScore,
			"labels", len(analysis.DeceptionTypes))
	} else {
		v.logger.Debug("report verified clean",
			"agent_id", string(report.AgentID),
			"task_id", string(report.TaskID))
	}

	v.persistTruth(ctx, report, analysis)
	return analysis
}

// AnalyzeAgent analyzes a full report list for one agent, recording metrics.
func (v *Verifier) AnalyzeAgent(agentID core.AgentID, reports []core.Report) core.DeceptionAnalysis {
	analysis := v.analyzer.AnalyzeAgentPattern(agentID, reports)
	v.metrics.Record(analysis)
	return analysis
}

// CorpusAnalysis is the result of verifying a full multi-agent corpus.
type CorpusAnalysis struct {
	Agents    map[core.AgentID]core.DeceptionAnalysis `json:"agents"`
	Collusion deception.CollusionResult               `json:"collusion"`
}

// AnalyzeCorpus groups the corpus by agent, runs per-agent pattern analyses
// in parallel and a collusion pass over the whole corpus.
func (v *Verifier) AnalyzeCorpus(ctx context.Context, reports []core.Report) (*CorpusAnalysis, error) {
	byAgent := make(map[core.AgentID][]core.Report)
	for _, r := range reports {
		byAgent[r.AgentID] = append(byAgent[r.AgentID], r)
	}

	agentIDs := make([]core.AgentID, 0, len(byAgent))
	for id := range byAgent {
		agentIDs = append(agentIDs, id)
	}
	sort.Slice(agentIDs, func(i, j int) bool { return agentIDs[i] < agentIDs[j] })

	results := make([]core.DeceptionAnalysis, len(agentIDs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(corpusParallelism)
	for i, agentID := range agentIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.AnalyzeAgent(agentID, byAgent[agentID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &CorpusAnalysis{
		Agents:    make(map[core.AgentID]core.DeceptionAnalysis, len(agentIDs)),
		Collusion: v.analyzer.DetectCollusion(reports),
	}
	for i, agentID := range agentIDs {
		out.Agents[agentID] = results[i]
	}
	return out, nil
}

// RecordSnapshot persists an arbitrary verification snapshot payload under
// the task's snapshot key.
func (v *Verifier) RecordSnapshot(ctx context.Context, taskID core.TaskID, snapshotID string, features evidence.Features, payload map[string]any) error {
	if v.store == nil {
		return nil
	}
	features.TaskID = taskID
	features.SnapshotID = snapshotID
	return v.store.Put(ctx, evidence.SnapshotKey(taskID, snapshotID), evidence.Encode(features), payload)
}

// persistTruth stores the truth record for a verified report. Failures are
// logged and swallowed so storage trouble never interrupts detection.
func (v *Verifier) persistTruth(ctx context.Context, report core.Report, analysis core.DeceptionAnalysis) {
	if v.store == nil {
		return
	}

	features := evidence.Features{
		Accuracy:   analysis.TruthScore,
		Confidence: analysis.Confidence,
		Passed:     report.Verified,
		Timestamp:  time.UnixMilli(report.Timestamp),
		TaskID:     report.TaskID,
	}
	if phase, ok := report.Evidence[evidenceKeyPhase].(string); ok {
		features.Phase = core.Phase(phase)
	}
	if session, ok := report.Evidence[evidenceKeySessionID].(string); ok {
		features.SessionID = session
	}

	labels := make([]string, len(analysis.DeceptionTypes))
	for i, label := range analysis.DeceptionTypes {
		labels[i] = string(label)
	}
	metadata := map[string]any{
		"agentId":           string(report.AgentID),
		"taskId":            string(report.TaskID),
		"reportId":          string(report.ID),
		"truthScore":        analysis.TruthScore,
		"confidence":        analysis.Confidence,
		"deceptionDetected": analysis.DeceptionDetected,
		"deceptionType":     labels,
		"verified":          report.Verified,
	}

	if err := v.store.Put(ctx, evidence.TruthKey(report.TaskID), evidence.Encode(features), metadata); err != nil {
		v.logger.Warn("persisting truth record failed",
			"task_id", string(report.TaskID), "error", err)
	}
}
