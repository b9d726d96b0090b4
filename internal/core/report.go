// Package core provides the shared domain model for the verification
// subsystem: agent self-reports, deception analyses and the error taxonomy.
// All packages should import from here to ensure consistency across the codebase.
package core

// AgentID identifies a reporting agent.
type AgentID string

// TaskID identifies the task a report concerns. Many reports may share a
// TaskID (multiple agents reporting on the same task).
type TaskID string

// ReportID uniquely identifies a single report.
type ReportID string

// PerformanceClaim holds an agent's claimed performance deltas.
// Improvement is fractional (0.35 = 35%).
type PerformanceClaim struct {
	Improvement float64            `json:"improvement"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// QualityClaim holds an agent's self-assessed quality, each dimension in [0,1].
type QualityClaim struct {
	CodeQuality     float64 `json:"codeQuality"`
	Documentation   float64 `json:"documentation"`
	Maintainability float64 `json:"maintainability"`
}

// ClaimedOutcome is the structured claim inside a report.
type ClaimedOutcome struct {
	Success     bool             `json:"success"`
	TestsPass   bool             `json:"testsPass"`
	NoErrors    bool             `json:"noErrors"`
	Performance PerformanceClaim `json:"performance"`
	Quality     QualityClaim     `json:"quality"`
}

// Report is one agent's self-description of a task outcome. Reports are
// immutable once created; missing optional fields carry safe zero values so
// the analyzers never fail on sparse real-world report logs.
type Report struct {
	ID             ReportID       `json:"id"`
	AgentID        AgentID        `json:"agentId"`
	TaskID         TaskID         `json:"taskId"`
	ClaimedOutcome ClaimedOutcome `json:"claimedOutcome"`

	// Evidence is a free-form bag of supporting data. Absence (or sparsity)
	// is itself a fabrication signal. Keys with structural meaning:
	// "duration" (ms) and "otherAgentQuality" ([0,1]).
	Evidence map[string]any `json:"evidence,omitempty"`

	// Timestamp is epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Conflicts lists free-text conflict descriptions attached by upstream
	// verification steps.
	Conflicts []string `json:"conflicts,omitempty"`

	// Verified is set by an external verifier; this subsystem never mutates it.
	Verified bool `json:"verified"`
}

// EvidenceKeyDuration is the evidence key holding task duration in ms.
const EvidenceKeyDuration = "duration"

// EvidenceKeyOtherAgentQuality is the evidence key holding the quality an
// agent attributes to another agent's work on the same task.
const EvidenceKeyOtherAgentQuality = "otherAgentQuality"

// EvidenceFloat reads a numeric evidence value, tolerating the numeric types
// JSON decoding produces. The second return is false when the key is absent
// or not numeric.
func (r *Report) EvidenceFloat(key string) (float64, bool) {
	if r.Evidence == nil {
		return 0, false
	}
	switch v := r.Evidence[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
