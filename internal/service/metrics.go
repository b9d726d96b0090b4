package service

import (
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// MetricsCollector accumulates in-process verification metrics.
type MetricsCollector struct {
	mu      sync.RWMutex
	global  VerificationMetrics
	agents  map[core.AgentID]*AgentVerificationMetrics
	byLabel map[core.DeceptionType]int
}

// VerificationMetrics holds subsystem-level counters.
type VerificationMetrics struct {
	StartTime         time.Time `json:"start_time"`
	AnalysesTotal     int       `json:"analyses_total"`
	DeceptionDetected int       `json:"deception_detected"`
	MeanTruthScore    float64   `json:"mean_truth_score"`

	truthScoreSum float64
}

// AgentVerificationMetrics holds per-agent counters.
type AgentVerificationMetrics struct {
	AgentID           core.AgentID `json:"agent_id"`
	Analyses          int          `json:"analyses"`
	DeceptionDetected int          `json:"deception_detected"`
	LastTruthScore    float64      `json:"last_truth_score"`
	LastAnalyzedAt    time.Time    `json:"last_analyzed_at"`
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		global:  VerificationMetrics{StartTime: time.Now()},
		agents:  make(map[core.AgentID]*AgentVerificationMetrics),
		byLabel: make(map[core.DeceptionType]int),
	}
}

// Record folds one analysis into the counters.
func (m *MetricsCollector) Record(analysis core.DeceptionAnalysis) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.global.AnalysesTotal++
	m.global.truthScoreSum += analysis.TruthScore
	if analysis.DeceptionDetected {
		m.global.DeceptionDetected++
	}
	for _, label := range analysis.DeceptionTypes {
		m.byLabel[label]++
	}

	agent := m.agents[analysis.AgentID]
	if agent == nil {
		agent = &AgentVerificationMetrics{AgentID: analysis.AgentID}
		m.agents[analysis.AgentID] = agent
	}
	agent.Analyses++
	if analysis.DeceptionDetected {
		agent.DeceptionDetected++
	}
	agent.LastTruthScore = analysis.TruthScore
	agent.LastAnalyzedAt = analysis.AnalyzedAt
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Global  VerificationMetrics                       `json:"global"`
	ByLabel map[core.DeceptionType]int                `json:"by_label"`
	Agents  map[core.AgentID]AgentVerificationMetrics `json:"agents"`
}

// Snapshot returns a copy of the current counters.
func (m *MetricsCollector) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Global:  m.global,
		ByLabel: make(map[core.DeceptionType]int, len(m.byLabel)),
		Agents:  make(map[core.AgentID]AgentVerificationMetrics, len(m.agents)),
	}
	if m.global.AnalysesTotal > 0 {
		snap.Global.MeanTruthScore = m.global.truthScoreSum / float64(m.global.AnalysesTotal)
	}
	for label, count := range m.byLabel {
		snap.ByLabel[label] = count
	}
	for id, agent := range m.agents {
		snap.Agents[id] = *agent
	}
	return snap
}
