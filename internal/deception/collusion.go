package deception

import (
	"math"
	"sort"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// CollusionEvidence summarizes the corpus-level collusion signals.
type CollusionEvidence struct {
	SynchronizedReporting bool `json:"synchronizedReporting"`
	IdenticalFalseClaims  int  `json:"identicalFalseClaims"`
}

// CollusionResult is the outcome of examining the full multi-agent corpus.
type CollusionResult struct {
	IsCollusion bool              `json:"isCollusion"`
	Confidence  float64           `json:"confidence"`
	Evidence    CollusionEvidence `json:"evidence"`
}

// DetectCollusion examines the whole multi-agent report corpus for
// coordinated false reporting: same-task reports submitted within the sync
// window of each other, task groups where every member claims the same
// too-good outcome, and task groups sharing a bit-identical quality score.
func (a *Analyzer) DetectCollusion(allReports []core.Report) CollusionResult {
	var result CollusionResult

	if len(allReports) < a.thresholds.MinReportsCollusion {
		return result
	}

	byTask := make(map[core.TaskID][]core.Report)
	for _, r := range allReports {
		byTask[r.TaskID] = append(byTask[r.TaskID], r)
	}

	synchronizedPairs := 0
	identicalClaims := 0
	for _, group := range byTask {
		if len(group) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool { return group[i].Timestamp < group[j].Timestamp })
		for i := 1; i < len(group); i++ {
			if group[i].Timestamp-group[i-1].Timestamp < a.thresholds.SyncWindowMS {
				synchronizedPairs++
			}
		}

		if allClaimPerfectOutcome(group) {
			identicalClaims++
		}
		if identicalHighQuality(group) {
			identicalClaims++
		}
	}

	// Inclusive bound: a pair of agents filing two tasks inside the sync
	// window produces exactly two pairs, the smallest corpus where
	// coordination is distinguishable from a single coincidence.
	synchronized := synchronizedPairs >= 2

	result.Evidence.SynchronizedReporting = synchronized
	result.Evidence.IdenticalFalseClaims = identicalClaims
	result.IsCollusion = identicalClaims > 2 || synchronized
	result.Confidence = math.Min(float64(identicalClaims+synchronizedPairs)*0.2, 1.0)
	return result
}

// allClaimPerfectOutcome reports whether every member of a same-task group
// simultaneously claims success, no errors and a >0.3 improvement.
func allClaimPerfectOutcome(group []core.Report) bool {
	for _, r := range group {
		c := r.ClaimedOutcome
		if !c.Success || !c.NoErrors || c.Performance.Improvement <= 0.3 {
			return false
		}
	}
	return true
}

// identicalHighQuality reports whether every member of a same-task group
// reports the exact same codeQuality value above 0.9.
func identicalHighQuality(group []core.Report) bool {
	first := group[0].ClaimedOutcome.Quality.CodeQuality
	if first <= 0.9 {
		return false
	}
	for _, r := range group[1:] {
		if r.ClaimedOutcome.Quality.CodeQuality != first {
			return false
		}
	}
	return true
}
