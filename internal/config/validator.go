package config

import (
	"fmt"
	"math"
)

// Validate checks configuration invariants that would otherwise surface as
// confusing detection behavior at runtime.
func Validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}

	thr := cfg.Detection.Thresholds
	for name, v := range map[string]float64{
		"realistic_success_rate":   thr.RealisticSuccessRate,
		"overconfidence_margin":    thr.OverconfidenceMargin,
		"typical_improvement":      thr.TypicalImprovement,
		"exaggeration_margin":      thr.ExaggerationMargin,
		"realistic_quality":        thr.RealisticQuality,
		"quality_inflation_margin": thr.QualityInflationMargin,
		"consistency_floor":        thr.ConsistencyFloor,
		"no_errors_rate_ceiling":   thr.NoErrorsRateCeiling,
		"no_errors_rate_baseline":  thr.NoErrorsRateBaseline,
		"critical_confidence":      thr.CriticalConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("detection.thresholds.%s: %v outside [0,1]", name, v)
		}
	}
	if thr.SyncWindowMS <= 0 {
		return fmt.Errorf("detection.thresholds.sync_window_ms: must be positive")
	}

	w := cfg.Risk.Weights
	if w.Distrust < 0 || w.Confidence < 0 || w.Frequency < 0 {
		return fmt.Errorf("risk.weights: weights must be non-negative")
	}
	if sum := w.Distrust + w.Confidence + w.Frequency; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("risk.weights: weights sum to %v, want 1.0", sum)
	}

	if cfg.Evidence.Enabled && cfg.Evidence.Path == "" {
		return fmt.Errorf("evidence.path: required when evidence.enabled is true")
	}

	return nil
}
