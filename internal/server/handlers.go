package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/entities"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
	"github.com/GonzaloFuentes1/anonymization-filter/internal/websocket"
)

type anonymizeRequest struct {
	Text string `json:"text"`
	// Entities toggles the external entity pass per request; nil falls back
	// to the server configuration.
	Entities *bool `json:"entities,omitempty"`
}

type anonymizeResponse struct {
	Text           string            `json:"text"`
	Findings       []redact.Finding  `json:"findings"`
	EntityFindings []entities.Entity `json:"entity_findings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":             "anonymization-filter",
		"version":          "0.1.0",
		"patterns":         s.catalog.Len(),
		"entities_enabled": s.entities != nil,
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handlePatterns lists the labels of the active identifier catalog
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  s.catalog.Len(),
		"labels": s.catalog.Labels(),
	})
}

// handleAnonymize redacts the submitted text and reports the findings
func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	s.countRequest()
	start := time.Now()

	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	entityPass := s.config.Entities.Enabled
	if req.Entities != nil {
		entityPass = *req.Entities
	}

	resp := anonymizeResponse{Text: req.Text}

	if entityPass {
		if s.entities == nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "entity analysis is not configured"})
			return
		}
		masked, found, err := s.entities.Mask(r.Context(), resp.Text)
		if err != nil {
			s.logger.Error("Entity analysis failed", zap.Error(err))
			s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "entity analysis failed"})
			return
		}
		resp.Text = masked
		resp.EntityFindings = found
	}

	result := s.redactor.Process(resp.Text)
	resp.Text = result.RedactedText
	resp.Findings = result.Findings

	s.countRedactions(len(resp.Findings))

	if len(resp.Findings) > 0 || len(resp.EntityFindings) > 0 {
		s.wsHub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventTypeRedaction,
			Timestamp: time.Now(),
			Data: websocket.RedactionEvent{
				ClientIP:       clientIP(r),
				Findings:       resp.Findings,
				TotalFindings:  len(resp.Findings),
				EntityFindings: len(resp.EntityFindings),
				ProcessingMS:   float64(time.Since(start).Microseconds()) / 1000.0,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
