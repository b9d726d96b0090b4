// Package deception implements the multi-signal deception detection engine:
// single-report fabrication analysis, per-agent pattern analysis, cross-agent
// contradiction detection, collusion detection and longitudinal risk scoring.
//
// All detectors are pure computation over already-materialized report lists.
// The only shared mutable state is the per-agent history kept in HistoryStore.
package deception

// Thresholds centralizes every tunable constant of the detection heuristics.
// The defaults are the calibrated baseline; they are exposed through
// configuration so operators can tune detection without touching the logic.
type Thresholds struct {
	// RealisticSuccessRate is the baseline success-claim rate considered
	// achievable by an honest agent.
	RealisticSuccessRate float64 `mapstructure:"realistic_success_rate"`
	// OverconfidenceMargin is how far above the realistic success rate an
	// agent's claim rate must sit before overconfidence fires.
	OverconfidenceMargin float64 `mapstructure:"overconfidence_margin"`

	// TypicalImprovement is the baseline mean performance improvement.
	TypicalImprovement float64 `mapstructure:"typical_improvement"`
	// ExaggerationMargin is the excess over TypicalImprovement that counts
	// as exaggeration.
	ExaggerationMargin float64 `mapstructure:"exaggeration_margin"`
	// ImpossibleExcess is the excess over TypicalImprovement beyond which
	// claims are treated as physically implausible.
	ImpossibleExcess float64 `mapstructure:"impossible_excess"`
	// ImprovementCeiling is the single-report improvement above which a
	// fabrication indicator fires.
	ImprovementCeiling float64 `mapstructure:"improvement_ceiling"`

	// RealisticQuality is the baseline mean self-assessed code quality.
	RealisticQuality float64 `mapstructure:"realistic_quality"`
	// QualityInflationMargin is the excess over RealisticQuality that counts
	// as inflation.
	QualityInflationMargin float64 `mapstructure:"quality_inflation_margin"`

	// ConsistencyFloor is the consistency score below which reporting is
	// considered inconsistent. Consistency = max(0, 1 - 2*stddev(improvement)).
	ConsistencyFloor float64 `mapstructure:"consistency_floor"`

	// NoErrorsRateCeiling is the rate of noErrors=true claims above which
	// issue hiding fires.
	NoErrorsRateCeiling float64 `mapstructure:"no_errors_rate_ceiling"`
	// NoErrorsRateBaseline anchors the hidden-issue count estimate.
	NoErrorsRateBaseline float64 `mapstructure:"no_errors_rate_baseline"`

	// Minimum report gates. These are heuristic magic numbers with no
	// documented derivation; they are kept here, named, so they can be tuned.
	MinReportsIssueHiding    int `mapstructure:"min_reports_issue_hiding"`
	MinReportsCherryPicking  int `mapstructure:"min_reports_cherry_picking"`
	MinReportsContradiction  int `mapstructure:"min_reports_contradiction"`
	MinReportsFabrication    int `mapstructure:"min_reports_fabrication"`
	MinReportsGaslighting    int `mapstructure:"min_reports_gaslighting"`
	MinReportsSelective      int `mapstructure:"min_reports_selective"`
	MinReportsAlwaysPositive int `mapstructure:"min_reports_always_positive"`
	MinReportsNoErrors       int `mapstructure:"min_reports_no_errors"`
	MinReportsCollusion      int `mapstructure:"min_reports_collusion"`

	// SyncWindowMS is the submission-time window (epoch ms delta) within
	// which two same-task reports count as synchronized.
	SyncWindowMS int64 `mapstructure:"sync_window_ms"`

	// CriticalConfidence is the confidence above which a critical
	// escalation recommendation is appended.
	CriticalConfidence float64 `mapstructure:"critical_confidence"`
}

// DefaultThresholds returns the calibrated baseline heuristic constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RealisticSuccessRate:   0.70,
		OverconfidenceMargin:   0.15,
		TypicalImprovement:     0.15,
		ExaggerationMargin:     0.10,
		ImpossibleExcess:       0.50,
		ImprovementCeiling:     0.50,
		RealisticQuality:       0.70,
		QualityInflationMargin: 0.15,
		ConsistencyFloor:       0.50,
		NoErrorsRateCeiling:    0.90,
		NoErrorsRateBaseline:   0.65,

		MinReportsIssueHiding:    10,
		MinReportsCherryPicking:  5,
		MinReportsContradiction:  3,
		MinReportsFabrication:    5,
		MinReportsGaslighting:    5,
		MinReportsSelective:      5,
		MinReportsAlwaysPositive: 10,
		MinReportsNoErrors:       15,
		MinReportsCollusion:      4,

		SyncWindowMS: 5000,

		CriticalConfidence: 0.80,
	}
}
