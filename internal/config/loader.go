package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New(), envPrefix: "VERITAS"}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, envPrefix: "VERITAS"}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (VERITAS_*)
// 3. Project config (.veritas/config.yaml in current directory)
// 4. User config (~/.config/veritas/config.yaml)
// 5. Calibrated defaults
func (l *Loader) Load() (*Config, error) {
	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	l.setDefaults()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".veritas")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "veritas"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if l.configFile != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	// Decode onto the prefilled defaults so absent keys keep their
	// calibrated values.
	cfg := Default()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key with viper so environment overrides are
// visible to Unmarshal (viper only resolves env values for known keys).
func (l *Loader) setDefaults() {
	d := Default()

	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.format", d.Log.Format)

	thr := d.Detection.Thresholds
	l.v.SetDefault("detection.thresholds", map[string]any{
		"realistic_success_rate":      thr.RealisticSuccessRate,
		"overconfidence_margin":       thr.OverconfidenceMargin,
		"typical_improvement":         thr.TypicalImprovement,
		"exaggeration_margin":         thr.ExaggerationMargin,
		"impossible_excess":           thr.ImpossibleExcess,
		"improvement_ceiling":         thr.ImprovementCeiling,
		"realistic_quality":           thr.RealisticQuality,
		"quality_inflation_margin":    thr.QualityInflationMargin,
		"consistency_floor":           thr.ConsistencyFloor,
		"no_errors_rate_ceiling":      thr.NoErrorsRateCeiling,
		"no_errors_rate_baseline":     thr.NoErrorsRateBaseline,
		"min_reports_issue_hiding":    thr.MinReportsIssueHiding,
		"min_reports_cherry_picking":  thr.MinReportsCherryPicking,
		"min_reports_contradiction":   thr.MinReportsContradiction,
		"min_reports_fabrication":     thr.MinReportsFabrication,
		"min_reports_gaslighting":     thr.MinReportsGaslighting,
		"min_reports_selective":       thr.MinReportsSelective,
		"min_reports_always_positive": thr.MinReportsAlwaysPositive,
		"min_reports_no_errors":       thr.MinReportsNoErrors,
		"min_reports_collusion":       thr.MinReportsCollusion,
		"sync_window_ms":              thr.SyncWindowMS,
		"critical_confidence":         thr.CriticalConfidence,
	})

	l.v.SetDefault("risk.weights.distrust", d.Risk.Weights.Distrust)
	l.v.SetDefault("risk.weights.confidence", d.Risk.Weights.Confidence)
	l.v.SetDefault("risk.weights.frequency", d.Risk.Weights.Frequency)

	l.v.SetDefault("evidence.enabled", d.Evidence.Enabled)
	l.v.SetDefault("evidence.path", d.Evidence.Path)
	l.v.SetDefault("server.addr", d.Server.Addr)
	l.v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	l.v.SetDefault("watch.dir", d.Watch.Dir)
}
