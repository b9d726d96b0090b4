package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
	"github.com/hugo-lorenzo-mato/veritas/internal/deception"
	"github.com/hugo-lorenzo-mato/veritas/internal/service"
)

func newTestServer(t *testing.T) (*Server, *service.Verifier) {
	t.Helper()
	analyzer := deception.NewAnalyzer(deception.DefaultThresholds(), nil)
	verifier := service.NewVerifier(analyzer)
	return NewServer(verifier), verifier
}

func apiReport(i int, agent core.AgentID, success bool) core.Report {
	return core.Report{
		ID:      core.ReportID(fmt.Sprintf("report-%s-%d", agent, i)),
		AgentID: agent,
		TaskID:  core.TaskID(fmt.Sprintf("task-%d", i)),
		ClaimedOutcome: core.ClaimedOutcome{
			Success:     success,
			Performance: core.PerformanceClaim{Improvement: 0.1},
			Quality:     core.QualityClaim{CodeQuality: 0.6},
		},
		Evidence: map[string]any{
			"duration": 45000.0,
			"logLines": 120,
			"phase":    "execute",
		},
		Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).UnixMilli() + int64(i)*60000,
	}
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestHandleVerifyReport(t *testing.T) {
	t.Parallel()
	s, v := newTestServer(t)

	req := verifyReportRequest{
		Report: apiReport(2, "agent-1", true),
		Historical: []core.Report{
			apiReport(0, "agent-1", false),
			apiReport(1, "agent-1", true),
		},
	}

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", req)
	require.Equal(t, http.StatusOK, w.Code)

	var analysis core.DeceptionAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, core.AgentID("agent-1"), analysis.AgentID)
	assert.Equal(t, req.Report.ID, analysis.ReportID)

	assert.Equal(t, 1, v.Analyzer().History().Len("agent-1"))
}

func TestHandleVerifyReport_BadRequests(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/reports", verifyReportRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeCorpus(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	var reports []core.Report
	for i := 0; i < 4; i++ {
		reports = append(reports, apiReport(i, "agent-a", true))
	}
	for i := 0; i < 3; i++ {
		reports = append(reports, apiReport(i+10, "agent-b", i == 0))
	}

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", reportsRequest{Reports: reports})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.CorpusAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Agents, 2)
	assert.True(t, result.Agents["agent-a"].HasType(core.DeceptionOverconfidence))
	assert.False(t, result.Agents["agent-b"].DeceptionDetected)
}

func TestHandleAnalyzeCorpus_EmptyRejected(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", reportsRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleCollusion(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	reports := []core.Report{
		apiReport(0, "agent-a", true),
		apiReport(1, "agent-b", true),
		apiReport(2, "agent-a", true),
		apiReport(3, "agent-b", true),
	}
	// Same-task pairs submitted moments apart.
	reports[1].TaskID = reports[0].TaskID
	reports[1].Timestamp = reports[0].Timestamp + 2000
	reports[3].TaskID = reports[2].TaskID
	reports[3].Timestamp = reports[2].Timestamp + 2000

	w := doJSON(t, s, http.MethodPost, "/api/v1/collusion", reportsRequest{Reports: reports})
	require.Equal(t, http.StatusOK, w.Code)

	var result deception.CollusionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsCollusion)
	assert.True(t, result.Evidence.SynchronizedReporting)
}

func TestHandleAgentRisk(t *testing.T) {
	t.Parallel()
	s, v := newTestServer(t)

	var reports []core.Report
	for i := 0; i < 4; i++ {
		reports = append(reports, apiReport(i, "agent-a", true))
	}
	v.AnalyzeAgent("agent-a", reports)

	w := doJSON(t, s, http.MethodGet, "/api/v1/agents/agent-a/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var risk deception.RiskResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &risk))
	assert.Greater(t, risk.RiskScore, 0.0)
	assert.Contains(t, risk.RecentPatterns, string(core.DeceptionOverconfidence))

	// Unknown agents are low risk, not 404: absence of evidence.
	w = doJSON(t, s, http.MethodGet, "/api/v1/agents/unknown/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &risk))
	assert.Equal(t, core.RiskLow, risk.RiskLevel)
}

func TestHandleAgentHistory(t *testing.T) {
	t.Parallel()
	s, v := newTestServer(t)

	v.AnalyzeAgent("agent-a", []core.Report{apiReport(0, "agent-a", true)})

	w := doJSON(t, s, http.MethodGet, "/api/v1/agents/agent-a/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AgentID string                   `json:"agentId"`
		Count   int                      `json:"count"`
		History []core.DeceptionAnalysis `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "agent-a", body.AgentID)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.History, 1)

	w = doJSON(t, s, http.MethodGet, "/api/v1/agents/unknown/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
}

func TestHandleMetrics(t *testing.T) {
	t.Parallel()
	s, v := newTestServer(t)

	v.AnalyzeAgent("agent-a", []core.Report{apiReport(0, "agent-a", true)})

	w := doJSON(t, s, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap service.MetricsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Global.AnalysesTotal)
}
