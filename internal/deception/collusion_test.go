package deception

import (
	"testing"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

func TestDetectCollusion_TooFewReports(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	reports := []core.Report{
		makeReport(0, reportSpec{agent: "agent-a", task: "task-1", timestamp: 1000}),
		makeReport(1, reportSpec{agent: "agent-b", task: "task-1", timestamp: 1200}),
		makeReport(2, reportSpec{agent: "agent-c", task: "task-1", timestamp: 1400}),
	}

	result := a.DetectCollusion(reports)
	if result.IsCollusion {
		t.Error("below the minimum corpus size nothing may fire")
	}
}

func TestDetectCollusion_SynchronizedReporting(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// Two task groups, each with a same-task pair submitted 2s apart.
	reports := []core.Report{
		makeReport(0, reportSpec{agent: "agent-a", task: "task-1", success: true, improvement: 0.1, codeQuality: 0.6, timestamp: 1000}),
		makeReport(1, reportSpec{agent: "agent-b", task: "task-1", success: true, improvement: 0.1, codeQuality: 0.7, timestamp: 3000}),
		makeReport(2, reportSpec{agent: "agent-a", task: "task-2", success: true, improvement: 0.1, codeQuality: 0.6, timestamp: 100000}),
		makeReport(3, reportSpec{agent: "agent-b", task: "task-2", success: true, improvement: 0.1, codeQuality: 0.7, timestamp: 102000}),
	}

	result := a.DetectCollusion(reports)

	if !result.Evidence.SynchronizedReporting {
		t.Fatal("expected synchronized reporting")
	}
	if !result.IsCollusion {
		t.Error("synchronized reporting is collusion")
	}
	if result.Evidence.IdenticalFalseClaims != 0 {
		t.Errorf("expected no identical-claim signal, got %d", result.Evidence.IdenticalFalseClaims)
	}
	if result.Confidence != 0.4 {
		t.Errorf("expected confidence 0.4, got %v", result.Confidence)
	}
}

func TestDetectCollusion_IdenticalImplausibleClaims(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// Three task groups where both members claim the same perfect outcome
	// with a bit-identical quality score. Submissions are hours apart, so
	// timing alone is clean.
	reports := make([]core.Report, 0, 6)
	for i := 0; i < 6; i++ {
		agent := core.AgentID("agent-a")
		if i%2 == 1 {
			agent = "agent-b"
		}
		reports = append(reports, makeReport(i, reportSpec{
			agent:       agent,
			task:        core.TaskID([]string{"task-1", "task-1", "task-2", "task-2", "task-3", "task-3"}[i]),
			success:     true,
			noErrors:    true,
			improvement: 0.5,
			codeQuality: 0.95,
			timestamp:   int64(i+1) * 3600_000,
		}))
	}

	result := a.DetectCollusion(reports)

	if result.Evidence.SynchronizedReporting {
		t.Error("hour-spaced submissions are not synchronized")
	}
	// Each group scores both the shared perfect outcome and the identical
	// quality value: 6 total.
	if result.Evidence.IdenticalFalseClaims != 6 {
		t.Errorf("expected 6 identical claims, got %d", result.Evidence.IdenticalFalseClaims)
	}
	if !result.IsCollusion {
		t.Error("identical implausible claims are collusion")
	}
	if result.Confidence != 1.0 {
		t.Errorf("expected confidence clamped to 1.0, got %v", result.Confidence)
	}
}

func TestDetectCollusion_IndependentAgentsAreClean(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	reports := []core.Report{
		makeReport(0, reportSpec{agent: "agent-a", task: "task-1", success: true, improvement: 0.1, codeQuality: 0.60, timestamp: 1000}),
		makeReport(1, reportSpec{agent: "agent-b", task: "task-1", success: false, improvement: 0.0, codeQuality: 0.55, timestamp: 60000}),
		makeReport(2, reportSpec{agent: "agent-a", task: "task-2", success: true, improvement: 0.2, codeQuality: 0.65, timestamp: 120000}),
		makeReport(3, reportSpec{agent: "agent-b", task: "task-2", success: true, improvement: 0.1, codeQuality: 0.70, timestamp: 240000}),
	}

	result := a.DetectCollusion(reports)

	if result.IsCollusion {
		t.Errorf("independent reporting must pass, got %+v", result.Evidence)
	}
	if result.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", result.Confidence)
	}
}
