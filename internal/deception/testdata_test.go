package deception

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// reportSpec keeps test fixtures compact: zero values describe a plausible,
// honest report and individual fields are overridden per case.
type reportSpec struct {
	agent        core.AgentID
	task         core.TaskID
	success      bool
	testsPass    bool
	noErrors     bool
	improvement  float64
	codeQuality  float64
	docs         float64
	maintain     float64
	metrics      map[string]float64
	evidence     map[string]any
	timestamp    int64
	conflicts    []string
	otherQuality float64
}

func makeReport(i int, spec reportSpec) core.Report {
	if spec.agent == "" {
		spec.agent = "agent-1"
	}
	if spec.task == "" {
		spec.task = core.TaskID(fmt.Sprintf("task-%d", i))
	}
	if spec.evidence == nil {
		spec.evidence = map[string]any{
			"duration": 60000.0,
			"logLines": 240,
			"filesChanged": []string{
				"internal/server.go",
			},
		}
	}
	if spec.timestamp == 0 {
		spec.timestamp = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).UnixMilli() + int64(i)*600000
	}
	if spec.otherQuality > 0 {
		spec.evidence["otherAgentQuality"] = spec.otherQuality
	}

	return core.Report{
		ID:      core.ReportID(fmt.Sprintf("report-%d", i)),
		AgentID: spec.agent,
		TaskID:  spec.task,
		ClaimedOutcome: core.ClaimedOutcome{
			Success:   spec.success,
			TestsPass: spec.testsPass,
			NoErrors:  spec.noErrors,
			Performance: core.PerformanceClaim{
				Improvement: spec.improvement,
				Metrics:     spec.metrics,
			},
			Quality: core.QualityClaim{
				CodeQuality:     spec.codeQuality,
				Documentation:   spec.docs,
				Maintainability: spec.maintain,
			},
		},
		Evidence:  spec.evidence,
		Timestamp: spec.timestamp,
		Conflicts: spec.conflicts,
	}
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultThresholds(), nil)
}
