package deception

import (
	"sync"
	"testing"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

func TestHistoryStore_AppendAndRetrieve(t *testing.T) {
	t.Parallel()
	h := NewHistoryStore()

	h.Append(storedAnalysis("agent-1", 0.9, 0.1))
	h.Append(storedAnalysis("agent-1", 0.8, 0.2))
	h.Append(storedAnalysis("agent-2", 0.7, 0.3))

	if h.Len("agent-1") != 2 {
		t.Errorf("expected 2 analyses, got %d", h.Len("agent-1"))
	}
	got := h.ForAgent("agent-1")
	if got[0].TruthScore != 0.9 || got[1].TruthScore != 0.8 {
		t.Error("history must preserve insertion order")
	}

	agents := h.Agents()
	if len(agents) != 2 || agents[0] != "agent-1" || agents[1] != "agent-2" {
		t.Errorf("expected sorted agent list, got %v", agents)
	}
}

func TestHistoryStore_ForAgentReturnsCopy(t *testing.T) {
	t.Parallel()
	h := NewHistoryStore()
	h.Append(storedAnalysis("agent-1", 0.9, 0.1))

	got := h.ForAgent("agent-1")
	got[0].TruthScore = 0.0

	if h.ForAgent("agent-1")[0].TruthScore != 0.9 {
		t.Error("mutating the returned slice must not affect the store")
	}
}

func TestHistoryStore_ConcurrentAppend(t *testing.T) {
	t.Parallel()
	h := NewHistoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(storedAnalysis("agent-1", 0.5, 0.5))
		}()
	}
	wg.Wait()

	if h.Len("agent-1") != 50 {
		t.Errorf("expected 50 analyses, got %d", h.Len("agent-1"))
	}
}

func TestHistoryStore_ReplaceAndMerge(t *testing.T) {
	t.Parallel()
	h := NewHistoryStore()
	h.Append(storedAnalysis("agent-1", 0.9, 0.1))

	imported := map[core.AgentID][]core.DeceptionAnalysis{
		"agent-1": {storedAnalysis("agent-1", 0.5, 0.5)},
		"agent-2": {storedAnalysis("agent-2", 0.4, 0.6)},
	}

	h.Merge(imported)
	if h.Len("agent-1") != 2 {
		t.Errorf("merge must append, got %d analyses", h.Len("agent-1"))
	}
	if h.Len("agent-2") != 1 {
		t.Errorf("merge must add new agents, got %d analyses", h.Len("agent-2"))
	}

	h.Replace(imported)
	if h.Len("agent-1") != 1 {
		t.Errorf("replace must discard existing history, got %d analyses", h.Len("agent-1"))
	}
}

func TestHistoryStore_ExportIsDeepCopy(t *testing.T) {
	t.Parallel()
	h := NewHistoryStore()
	h.Append(storedAnalysis("agent-1", 0.9, 0.1))

	exported := h.Export()
	exported["agent-1"][0].TruthScore = 0.0
	exported["agent-3"] = []core.DeceptionAnalysis{storedAnalysis("agent-3", 1, 0)}

	if h.ForAgent("agent-1")[0].TruthScore != 0.9 {
		t.Error("mutating the export must not affect the store")
	}
	if h.Len("agent-3") != 0 {
		t.Error("adding agents to the export must not affect the store")
	}
}
