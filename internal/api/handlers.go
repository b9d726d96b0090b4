package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// maxRequestBody bounds report upload size.
const maxRequestBody = 10 << 20 // 10 MiB

// verifyReportRequest is the POST /reports payload.
type verifyReportRequest struct {
	Report     core.Report   `json:"report"`
	Historical []core.Report `json:"historical,omitempty"`
}

// reportsRequest is the payload for corpus-level endpoints.
type reportsRequest struct {
	Reports []core.Report `json:"reports"`
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleVerifyReport analyzes a single report against the agent's history.
func (s *Server) handleVerifyReport(w http.ResponseWriter, r *http.Request) {
	var req verifyReportRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Report.AgentID == "" {
		respondError(w, http.StatusUnprocessableEntity, "report.agentId is required")
		return
	}

	analysis := s.verifier.VerifyReport(r.Context(), req.Report, req.Historical)
	respondJSON(w, http.StatusOK, analysis)
}

// handleAnalyzeCorpus analyzes a batch of reports across all agents.
func (s *Server) handleAnalyzeCorpus(w http.ResponseWriter, r *http.Request) {
	var req reportsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if len(req.Reports) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "reports must not be empty")
		return
	}

	result, err := s.verifier.AnalyzeCorpus(r.Context(), req.Reports)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleCollusion runs collusion detection over a batch of reports.
func (s *Server) handleCollusion(w http.ResponseWriter, r *http.Request) {
	var req reportsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result := s.verifier.Analyzer().DetectCollusion(req.Reports)
	respondJSON(w, http.StatusOK, result)
}

// handleAgentRisk returns the aggregated risk score for an agent.
func (s *Server) handleAgentRisk(w http.ResponseWriter, r *http.Request) {
	agentID := core.AgentID(chi.URLParam(r, "agentID"))
	if agentID == "" {
		respondError(w, http.StatusUnprocessableEntity, "agent ID is required")
		return
	}

	risk := s.verifier.Analyzer().CalculateRiskScore(agentID)
	respondJSON(w, http.StatusOK, risk)
}

// handleAgentHistory returns the stored analyses for an agent.
func (s *Server) handleAgentHistory(w http.ResponseWriter, r *http.Request) {
	agentID := core.AgentID(chi.URLParam(r, "agentID"))
	if agentID == "" {
		respondError(w, http.StatusUnprocessableEntity, "agent ID is required")
		return
	}

	history := s.verifier.Analyzer().GetAgentHistory(agentID)
	if history == nil {
		history = []core.DeceptionAnalysis{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"agentId": agentID,
		"count":   len(history),
		"history": history,
	})
}

// handleMetrics returns verification counters.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.verifier.Metrics().Snapshot())
}
