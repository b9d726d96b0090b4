package deception

import (
	"testing"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

func TestDetectSelectiveReporting_TooFewReports(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	reports := make([]core.Report, 0, 4)
	for i := 0; i < 4; i++ {
		reports = append(reports, makeReport(i, reportSpec{success: true}))
	}

	result := a.DetectSelectiveReporting(reports)
	if result.IsSelective {
		t.Error("below the minimum report gate nothing may fire")
	}
}

func TestDetectSelectiveReporting_AlwaysPositive(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	reports := make([]core.Report, 0, 12)
	for i := 0; i < 12; i++ {
		reports = append(reports, makeReport(i, reportSpec{success: true}))
	}

	result := a.DetectSelectiveReporting(reports)

	if !result.IsSelective {
		t.Fatal("expected always-positive pattern")
	}
	if result.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", result.Confidence)
	}
	if result.Evidence["pattern"] != SelectiveAlwaysPositive {
		t.Errorf("expected %q pattern, got %v", SelectiveAlwaysPositive, result.Evidence["pattern"])
	}
}

func TestDetectSelectiveReporting_NoErrorAdmissions(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// Success rate 0.5 stays plausible, but 16 reports without a single
	// error admission do not.
	reports := make([]core.Report, 0, 16)
	for i := 0; i < 16; i++ {
		reports = append(reports, makeReport(i, reportSpec{
			success:  i%2 == 0,
			noErrors: true,
		}))
	}

	result := a.DetectSelectiveReporting(reports)

	if !result.IsSelective {
		t.Fatal("expected no-errors pattern")
	}
	if result.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", result.Confidence)
	}
	if result.Evidence["pattern"] != SelectiveNoErrors {
		t.Errorf("expected %q pattern, got %v", SelectiveNoErrors, result.Evidence["pattern"])
	}
}

func TestDetectSelectiveReporting_MixedStreamIsClean(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	reports := make([]core.Report, 0, 16)
	for i := 0; i < 16; i++ {
		reports = append(reports, makeReport(i, reportSpec{
			success:  i%4 != 0,
			noErrors: i%3 != 0,
		}))
	}

	result := a.DetectSelectiveReporting(reports)
	if result.IsSelective {
		t.Errorf("mixed reporting must pass, got %v", result.Evidence)
	}
}
