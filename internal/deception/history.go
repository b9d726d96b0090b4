package deception

import (
	"sort"
	"sync"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// HistoryStore keeps the per-agent analysis history: an insertion-ordered
// (chronological) list of DeceptionAnalysis per agent. It is the only shared
// mutable state in the engine; the store is owned by the caller and injected
// into the Analyzer so lifecycle and testing stay explicit.
//
// Appends are atomic, so concurrent analyses for the same agent cannot lose
// updates. History grows unbounded for the lifetime of the store; no eviction
// policy is applied.
type HistoryStore struct {
	mu      sync.RWMutex
	byAgent map[core.AgentID][]core.DeceptionAnalysis
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		byAgent: make(map[core.AgentID][]core.DeceptionAnalysis),
	}
}

// Append records an analysis for its agent.
func (h *HistoryStore) Append(analysis core.DeceptionAnalysis) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byAgent[analysis.AgentID] = append(h.byAgent[analysis.AgentID], analysis)
}

// ForAgent returns a copy of the agent's analysis history in insertion order.
func (h *HistoryStore) ForAgent(agentID core.AgentID) []core.DeceptionAnalysis {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stored := h.byAgent[agentID]
	if len(stored) == 0 {
		return nil
	}
	out := make([]core.DeceptionAnalysis, len(stored))
	copy(out, stored)
	return out
}

// Agents returns all known agent IDs in sorted order.
func (h *HistoryStore) Agents() []core.AgentID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	agents := make([]core.AgentID, 0, len(h.byAgent))
	for id := range h.byAgent {
		agents = append(agents, id)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	return agents
}

// Len returns the number of stored analyses for an agent.
func (h *HistoryStore) Len(agentID core.AgentID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byAgent[agentID])
}

// Replace swaps the full history contents. Used by snapshot import with
// replace mode.
func (h *HistoryStore) Replace(byAgent map[core.AgentID][]core.DeceptionAnalysis) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byAgent = make(map[core.AgentID][]core.DeceptionAnalysis, len(byAgent))
	for id, analyses := range byAgent {
		copied := make([]core.DeceptionAnalysis, len(analyses))
		copy(copied, analyses)
		h.byAgent[id] = copied
	}
}

// Merge appends imported analyses after existing ones, per agent. Used by
// snapshot import with merge mode.
func (h *HistoryStore) Merge(byAgent map[core.AgentID][]core.DeceptionAnalysis) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, analyses := range byAgent {
		h.byAgent[id] = append(h.byAgent[id], analyses...)
	}
}

// Export returns a deep copy of the full history keyed by agent.
func (h *HistoryStore) Export() map[core.AgentID][]core.DeceptionAnalysis {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[core.AgentID][]core.DeceptionAnalysis, len(h.byAgent))
	for id, analyses := range h.byAgent {
		copied := make([]core.DeceptionAnalysis, len(analyses))
		copy(copied, analyses)
		out[id] = copied
	}
	return out
}
