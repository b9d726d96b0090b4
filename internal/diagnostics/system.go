// Package diagnostics collects host resource metrics for the doctor command.
package diagnostics

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemMetrics holds system-wide resource usage.
type SystemMetrics struct {
	CPUModel   string  `json:"cpu_model"`
	CPUCores   int     `json:"cpu_cores"`
	CPUPercent float64 `json:"cpu_percent"`

	MemTotalMB float64 `json:"mem_total_mb"`
	MemUsedMB  float64 `json:"mem_used_mb"`
	MemPercent float64 `json:"mem_percent"`

	DiskTotalGB float64 `json:"disk_total_gb"`
	DiskUsedGB  float64 `json:"disk_used_gb"`
	DiskPercent float64 `json:"disk_percent"`

	LoadAvg1  float64 `json:"load_avg_1"`
	LoadAvg5  float64 `json:"load_avg_5"`
	LoadAvg15 float64 `json:"load_avg_15"`
}

// Collect gathers current system statistics. Individual probes are
// best-effort; a failed probe leaves its fields at zero.
func Collect(path string) SystemMetrics {
	stats := SystemMetrics{
		CPUCores: runtime.NumCPU(),
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		stats.CPUModel = infos[0].ModelName
	}
	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemTotalMB = float64(vm.Total) / (1024 * 1024)
		stats.MemUsedMB = float64(vm.Used) / (1024 * 1024)
		stats.MemPercent = vm.UsedPercent
	}

	if path == "" {
		path = "."
	}
	if du, err := disk.Usage(path); err == nil {
		stats.DiskTotalGB = float64(du.Total) / (1024 * 1024 * 1024)
		stats.DiskUsedGB = float64(du.Used) / (1024 * 1024 * 1024)
		stats.DiskPercent = du.UsedPercent
	}

	if avg, err := load.Avg(); err == nil {
		stats.LoadAvg1 = avg.Load1
		stats.LoadAvg5 = avg.Load5
		stats.LoadAvg15 = avg.Load15
	}

	return stats
}
