package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/logger"
)

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   message,
		RequestID: RequestID(r),
	})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Invalid
// transitions are surfaced generically; the UI should never have offered the
// action, so the detail goes to the log rather than the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{RequestID: RequestID(r)}
	var status int

	var policyErr *domain.PolicyError
	switch {
	case errors.As(err, &policyErr):
		status = http.StatusUnprocessableEntity
		resp.Code = "POLICY_VIOLATION"
		resp.Message = policyErr.Error()
		resp.Reason = string(policyErr.Reason)
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		resp.Code = "VALIDATION_ERROR"
		resp.Message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		resp.Code = "CONFLICT"
		resp.Message = err.Error()
	case errors.Is(err, domain.ErrToolUnavailable):
		status = http.StatusConflict
		resp.Code = "TOOL_UNAVAILABLE"
		resp.Message = err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
		resp.Code = "INVALID_TRANSITION"
		resp.Message = "this reservation can no longer be modified"
		logger.WithRequest(RequestID(r)).Warn("Invalid transition attempted", "error", err)
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp.Code = "NOT_FOUND"
		resp.Message = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		resp.Code = "FORBIDDEN"
		resp.Message = err.Error()
	default:
		status = http.StatusInternalServerError
		resp.Code = "INTERNAL"
		resp.Message = "internal server error"
		logger.WithRequest(RequestID(r)).Error("Request failed", "error", err)
	}

	writeJSON(w, status, resp)
}
