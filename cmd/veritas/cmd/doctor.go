package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/veritas/internal/adapters/evidence"
	"github.com/hugo-lorenzo-mato/veritas/internal/diagnostics"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and evidence store health",
	Long:  "Validate the configuration, probe the evidence store and report host resource usage.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	fmt.Println("Checking configuration...")
	fmt.Println()

	allOk := true

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  ✗ configuration: %v\n", err)
		return fmt.Errorf("configuration check failed")
	}
	fmt.Println("  ✓ configuration valid")

	fmt.Println()
	fmt.Println("Checking evidence store...")
	fmt.Println()

	if !cfg.Evidence.Enabled {
		fmt.Println("  ○ evidence store disabled")
	} else if err := checkEvidenceStore(cmd, cfg.Evidence.Path); err != nil {
		fmt.Printf("  ✗ evidence store: %v\n", err)
		allOk = false
	}

	fmt.Println()
	fmt.Println("Host resources:")
	fmt.Println()

	metrics := diagnostics.Collect(filepath.Dir(cfg.Evidence.Path))
	fmt.Printf("  cpu:    %s (%d cores, %.1f%% used)\n",
		metrics.CPUModel, metrics.CPUCores, metrics.CPUPercent)
	fmt.Printf("  memory: %.0f/%.0f MB (%.1f%%)\n",
		metrics.MemUsedMB, metrics.MemTotalMB, metrics.MemPercent)
	fmt.Printf("  disk:   %.1f/%.1f GB (%.1f%%)\n",
		metrics.DiskUsedGB, metrics.DiskTotalGB, metrics.DiskPercent)
	fmt.Printf("  load:   %.2f %.2f %.2f\n",
		metrics.LoadAvg1, metrics.LoadAvg5, metrics.LoadAvg15)

	fmt.Println()
	if !allOk {
		return fmt.Errorf("health check failed")
	}
	fmt.Println("All checks passed")
	return nil
}

func checkEvidenceStore(cmd *cobra.Command, path string) error {
	if path == "" {
		return fmt.Errorf("evidence.path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("database directory: %w", err)
		}
	}

	store, err := evidence.New(path)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("  ✓ evidence store reachable (%d vectors)\n", stats.VectorCount)
	return nil
}
