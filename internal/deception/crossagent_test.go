package deception

import (
	"testing"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

func TestDetectGaslighting_ContradictsPeers(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	report := makeReport(0, reportSpec{
		agent:       "agent-a",
		task:        "task-1",
		success:     true,
		improvement: 0.50,
		codeQuality: 0.90,
	})
	others := []core.Report{
		makeReport(1, reportSpec{
			agent:       "agent-b",
			task:        "task-1",
			success:     false,
			improvement: 0.0,
			codeQuality: 0.40,
		}),
		makeReport(2, reportSpec{
			agent:       "agent-c",
			task:        "task-1",
			success:     true,
			improvement: 0.05,
			codeQuality: 0.70,
		}),
	}

	result := a.DetectGaslighting(report, others)

	if !result.IsGaslighting {
		t.Fatalf("expected gaslighting, contradictions %v", result.Contradictions)
	}
	// vs agent-b: success flip, improvement delta, quality discredit.
	// vs agent-c: improvement delta only.
	if result.ContradictionsWithOtherAgents != 4 {
		t.Errorf("expected 4 contradictions, got %d: %v",
			result.ContradictionsWithOtherAgents, result.Contradictions)
	}
	if result.Confidence != 1.0 {
		t.Errorf("expected confidence clamped to 1.0, got %v", result.Confidence)
	}
	if !result.SystematicDisagreement {
		t.Error("4 contradictions across 2 peers is systematic")
	}
}

func TestDetectGaslighting_AgreementIsClean(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	report := makeReport(0, reportSpec{
		agent:       "agent-a",
		task:        "task-1",
		success:     true,
		improvement: 0.20,
		codeQuality: 0.70,
	})
	others := []core.Report{
		makeReport(1, reportSpec{
			agent:       "agent-b",
			task:        "task-1",
			success:     true,
			improvement: 0.15,
			codeQuality: 0.65,
		}),
	}

	result := a.DetectGaslighting(report, others)

	if result.IsGaslighting {
		t.Errorf("agreeing reports must not be gaslighting: %v", result.Contradictions)
	}
	if result.ContradictionsWithOtherAgents != 0 {
		t.Errorf("expected 0 contradictions, got %d", result.ContradictionsWithOtherAgents)
	}
}

func TestDetectGaslighting_IgnoresOtherTasksAndSelf(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	report := makeReport(0, reportSpec{
		agent:       "agent-a",
		task:        "task-1",
		success:     true,
		improvement: 0.50,
		codeQuality: 0.90,
	})
	others := []core.Report{
		// Different task: ignored even though it contradicts.
		makeReport(1, reportSpec{
			agent:   "agent-b",
			task:    "task-2",
			success: false,
		}),
		// Same agent: ignored.
		makeReport(2, reportSpec{
			agent:   "agent-a",
			task:    "task-1",
			success: false,
		}),
	}

	result := a.DetectGaslighting(report, others)

	if result.ContradictionsWithOtherAgents != 0 {
		t.Errorf("expected 0 contradictions, got %v", result.Contradictions)
	}
	if result.IsGaslighting {
		t.Error("no comparable peers means no gaslighting")
	}
}

func TestDetectGaslighting_SingleContradictionBelowFloor(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	report := makeReport(0, reportSpec{
		agent:       "agent-a",
		task:        "task-1",
		success:     true,
		improvement: 0.10,
		codeQuality: 0.70,
	})
	others := []core.Report{
		makeReport(1, reportSpec{
			agent:       "agent-b",
			task:        "task-1",
			success:     false,
			improvement: 0.10,
			codeQuality: 0.70,
		}),
	}

	result := a.DetectGaslighting(report, others)

	if result.IsGaslighting {
		t.Error("one contradiction is disagreement, not gaslighting")
	}
	if result.ContradictionsWithOtherAgents != 1 {
		t.Errorf("expected 1 contradiction, got %d", result.ContradictionsWithOtherAgents)
	}
	if result.Confidence != 0.3 {
		t.Errorf("expected confidence 0.3, got %v", result.Confidence)
	}
	// One peer, one contradiction: the disagreement floor is met.
	if !result.SystematicDisagreement {
		t.Error("expected systematic disagreement at the single-peer floor")
	}
}
