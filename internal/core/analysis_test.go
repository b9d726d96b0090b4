package core

import "testing"

func TestHasType(t *testing.T) {
	a := DeceptionAnalysis{
		DeceptionTypes: []DeceptionType{DeceptionOverconfidence, DeceptionFabrication},
	}
	if !a.HasType(DeceptionOverconfidence) {
		t.Error("expected overconfidence label")
	}
	if a.HasType(DeceptionGaslighting) {
		t.Error("unexpected gaslighting label")
	}

	var empty DeceptionAnalysis
	if empty.HasType(DeceptionFabrication) {
		t.Error("zero-value analysis must carry no labels")
	}
}

// Callers routinely index analyses out of per-agent result maps, so HasType
// must be callable on a non-addressable map value.
func TestHasTypeOnMapValue(t *testing.T) {
	byAgent := map[AgentID]DeceptionAnalysis{
		"agent-a": {DeceptionTypes: []DeceptionType{DeceptionCherryPicking}},
	}
	if !byAgent["agent-a"].HasType(DeceptionCherryPicking) {
		t.Error("expected cherry_picking label on map value")
	}
	if byAgent["agent-a"].HasType(DeceptionInconsistency) {
		t.Error("unexpected inconsistency label on map value")
	}
}
