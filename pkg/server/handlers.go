package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
	"meridian-hq/meridian/pkg/protocol"
)

// VerifyRequest is the request body for POST /v1/verify.
type VerifyRequest struct {
	Patient    *clinical.PatientContext      `json:"patient"`
	Extraction *clinical.StructuredExtraction `json:"extraction"`
}

// VerifyResponse is the response body for POST /v1/verify.
type VerifyResponse struct {
	RequestID string                         `json:"request_id"`
	Result    *compliance.VerificationResult `json:"result"`
	RecordID  string                         `json:"record_id,omitempty"`
}

// ValidateRulesResponse is the response body for POST /v1/rules/validate.
type ValidateRulesResponse struct {
	Valid           bool     `json:"valid"`
	Version         string   `json:"version,omitempty"`
	EnabledCheckers []string `json:"enabled_checkers,omitempty"`
	RuleCount       int      `json:"rule_count,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleVerify runs a verification and returns the classified result.
// Verification itself never fails; only malformed requests produce
// non-200 responses.
func (s *Server) handleVerify() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		defer body.Close()

		var req VerifyRequest
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if req.Patient == nil || req.Extraction == nil {
			writeError(w, http.StatusBadRequest, "patient and extraction are required")
			return
		}

		var rules *protocol.RuleConfig
		var rulesVersion string
		if s.rules != nil {
			rules = s.rules.Current()
			rulesVersion = rules.Version
		}

		start := time.Now()
		result := s.engine.Verify(req.Patient, req.Extraction, rules)
		duration := time.Since(start)

		requestID := GetRequestID(r.Context())

		resp := VerifyResponse{
			RequestID: requestID,
			Result:    result,
		}

		if s.collector != nil {
			s.collector.RecordVerification(req.Extraction.DocumentType, string(result.Status), duration)
			for _, alert := range result.Alerts {
				s.collector.RecordAlert(alert.SourceID, string(alert.Severity))
			}
		}

		if s.recorder != nil {
			record := s.recorder.Record(requestID, req.Patient, req.Extraction, result, rulesVersion, duration)
			if record != nil {
				resp.RecordID = record.ID
				if s.reviews != nil {
					if _, err := s.reviews.Intake(r.Context(), record); err != nil {
						slog.ErrorContext(r.Context(), "review intake failed",
							"record_id", record.ID,
							"error", err,
						)
					}
				}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

// handleValidateRules validates a YAML rule document without installing it.
// A syntactically or semantically invalid document returns 422 with the
// collected validation errors.
func (s *Server) handleValidateRules() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		defer body.Close()

		data, err := io.ReadAll(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
			return
		}

		cfg, err := protocol.ValidateConfig(data)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ValidateRulesResponse{
				Valid:  false,
				Errors: validationMessages(err),
			})
			return
		}

		writeJSON(w, http.StatusOK, ValidateRulesResponse{
			Valid:           true,
			Version:         cfg.Version,
			EnabledCheckers: cfg.EnabledCheckers(),
			RuleCount:       cfg.ActiveRuleCount(),
		})
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// validationMessages flattens a rule validation failure into one message
// per field error.
func validationMessages(err error) []string {
	var cfgErr *protocol.ConfigError
	if errors.As(err, &cfgErr) {
		msgs := make([]string, len(cfgErr.Errors))
		for i, fe := range cfgErr.Errors {
			msgs[i] = fe.Error()
		}
		return msgs
	}
	return []string{err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
