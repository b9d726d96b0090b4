// Package snapshot exports and imports the per-agent analysis history as a
// versioned, checksummed JSON envelope for audit and migration.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
	"github.com/hugo-lorenzo-mato/veritas/internal/deception"
)

// FormatVersion is the current snapshot envelope format version.
const FormatVersion = 1

// ImportMode controls how import applies history data.
type ImportMode string

const (
	// ImportModeMerge appends imported analyses after existing ones.
	ImportModeMerge ImportMode = "merge"
	// ImportModeReplace discards existing history first.
	ImportModeReplace ImportMode = "replace"
)

// Envelope is the on-disk snapshot format. Checksum covers the canonical
// JSON serialization of History.
type Envelope struct {
	Version        int                                       `json:"version"`
	CreatedAt      time.Time                                 `json:"created_at"`
	VeritasVersion string                                    `json:"veritas_version,omitempty"`
	AgentCount     int                                       `json:"agent_count"`
	AnalysisCount  int                                       `json:"analysis_count"`
	Checksum       string                                    `json:"checksum"`
	History        map[core.AgentID][]core.DeceptionAnalysis `json:"history"`
}

// Export writes the history store's contents to path atomically.
func Export(path string, history *deception.HistoryStore, appVersion string) (*Envelope, error) {
	byAgent := history.Export()

	analysisCount := 0
	for _, analyses := range byAgent {
		analysisCount += len(analyses)
	}

	checksum, err := historyChecksum(byAgent)
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		Version:        FormatVersion,
		CreatedAt:      time.Now().UTC(),
		VeritasVersion: appVersion,
		AgentCount:     len(byAgent),
		AnalysisCount:  analysisCount,
		Checksum:       checksum,
		History:        byAgent,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	return env, nil
}

// Import reads a snapshot from path, validates version and checksum, and
// applies it to the history store per mode.
func Import(path string, history *deception.HistoryStore, mode ImportMode) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if env.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", env.Version, FormatVersion)
	}

	checksum, err := historyChecksum(env.History)
	if err != nil {
		return nil, err
	}
	if checksum != env.Checksum {
		return nil, fmt.Errorf("snapshot checksum mismatch: file may be corrupted")
	}

	switch mode {
	case ImportModeReplace:
		history.Replace(env.History)
	case ImportModeMerge, "":
		history.Merge(env.History)
	default:
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}
	return &env, nil
}

// historyChecksum hashes the canonical JSON serialization of the history map.
// Go's encoding/json sorts map keys, so the serialization is stable.
func historyChecksum(byAgent map[core.AgentID][]core.DeceptionAnalysis) (string, error) {
	data, err := json.Marshal(byAgent)
	if err != nil {
		return "", fmt.Errorf("marshaling history for checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
