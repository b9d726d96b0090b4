package config

import "github.com/hugo-lorenzo-mato/veritas/internal/deception"

// DefaultConfigYAML is the configuration scaffold written by `veritas init`.
// Values not specified use the calibrated defaults.
const DefaultConfigYAML = `# veritas configuration
# Deception detection thresholds use the calibrated baseline unless overridden.

log:
  level: info      # debug, info, warn, error
  format: auto     # auto, text, json

evidence:
  enabled: true
  path: .veritas/evidence.db

server:
  addr: 127.0.0.1:8787
  allowed_origins:
    - http://localhost:5173

watch:
  dir: .veritas/reports

# detection:
#   thresholds:
#     realistic_success_rate: 0.70
#     overconfidence_margin: 0.15
#
# risk:
#   weights:
#     distrust: 0.4
#     confidence: 0.3
#     frequency: 0.3
`

// Default returns the fully-populated default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Detection: DetectionConfig{
			Thresholds: deception.DefaultThresholds(),
		},
		Risk: RiskConfig{
			Weights: deception.DefaultRiskWeights(),
		},
		Evidence: EvidenceConfig{
			Enabled: true,
			Path:    ".veritas/evidence.db",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Watch: WatchConfig{
			Dir: ".veritas/reports",
		},
	}
}
