package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/veritas/internal/adapters/evidence"
	"github.com/hugo-lorenzo-mato/veritas/internal/config"
	"github.com/hugo-lorenzo-mato/veritas/internal/deception"
	"github.com/hugo-lorenzo-mato/veritas/internal/logging"
	"github.com/hugo-lorenzo-mato/veritas/internal/service"
)

// loadConfig loads the unified configuration using the global viper instance
// so persistent flag bindings apply.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	return loader.Load()
}

// newLogger creates a logger from the loaded configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	if quiet {
		return logging.NewNop()
	}
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// buildVerifier assembles the analyzer, optional evidence store and verifier
// from configuration. The returned cleanup closes the evidence store.
func buildVerifier(cfg *config.Config, logger *logging.Logger) (*service.Verifier, func(), error) {
	analyzer := deception.NewAnalyzer(cfg.Detection.Thresholds, nil,
		deception.WithRiskWeights(cfg.Risk.Weights))

	opts := []service.VerifierOption{service.WithLogger(logger)}
	cleanup := func() {}

	if cfg.Evidence.Enabled {
		store, err := evidence.New(cfg.Evidence.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening evidence store: %w", err)
		}
		opts = append(opts, service.WithEvidenceStore(store))
		cleanup = func() { _ = store.Close() }
	}

	return service.NewVerifier(analyzer, opts...), cleanup, nil
}

// writeOutput renders v to stdout in the requested format (json or yaml).
func writeOutput(v any, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json", "":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
