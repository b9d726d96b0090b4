package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
	"github.com/hugo-lorenzo-mato/veritas/internal/logging"
)

// Watcher ingests report files dropped into a directory and feeds them to the
// verifier. Each file holds either one report object or an array of reports
// for one agent; files are verified in arrival order.
type Watcher struct {
	dir      string
	verifier *Verifier
	logger   *logging.Logger
}

// NewWatcher creates a watcher over dir.
func NewWatcher(dir string, verifier *Verifier, logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{dir: dir, verifier: verifier, logger: logger.WithComponent("watcher")}
}

// Run watches the directory until the context is canceled. Files already
// present at startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("listing watch directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			w.processFile(ctx, filepath.Join(w.dir, entry.Name()))
		}
	}

	w.logger.Info("watching for report files", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.processFile(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) processFile(ctx context.Context, path string) {
	if !strings.HasSuffix(path, ".json") {
		return
	}

	reports, err := LoadReports(path)
	if err != nil {
		w.logger.Warn("skipping unreadable report file", "path", path, "error", err)
		return
	}

	seen := make(map[core.AgentID][]core.Report)
	for _, report := range reports {
		historical := seen[report.AgentID]
		analysis := w.verifier.VerifyReport(ctx, report, historical)
		seen[report.AgentID] = append(historical, report)
		w.logger.Info("report analyzed",
			"path", filepath.Base(path),
			"agent_id", string(report.AgentID),
			"truth_score", analysis.TruthScore,
			"deception", analysis.DeceptionDetected)
	}
}

// LoadReports reads a JSON file holding either a single report or an array.
func LoadReports(path string) ([]core.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var reports []core.Report
	if err := json.Unmarshal(data, &reports); err == nil {
		return reports, nil
	}

	var single core.Report
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []core.Report{single}, nil
}
