package response

import (
	"encoding/json"
	"net/http"
	"time"

	"challengehub/internal/contextutils"
	"challengehub/internal/services"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// JSON writes a success envelope with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	write(w, status, &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: contextutils.GetRequestID(r.Context()),
		Timestamp: time.Now().Unix(),
	})
}

// Created writes a success envelope with 201.
func Created(w http.ResponseWriter, r *http.Request, data interface{}) {
	JSON(w, r, http.StatusCreated, data)
}

// OK writes a success envelope with 200.
func OK(w http.ResponseWriter, r *http.Request, data interface{}) {
	JSON(w, r, http.StatusOK, data)
}

// Error maps the error onto its HTTP status and writes an error envelope.
// Internal error details are not exposed to clients.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)

	detail := &ErrorDetail{
		Type:    serviceErr.Type,
		Message: serviceErr.Message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}
	if serviceErr.GetStatusCode() >= 500 {
		detail.Message = "internal server error"
		detail.Details = nil
	}

	write(w, serviceErr.GetStatusCode(), &APIResponse{
		Success:   false,
		Error:     detail,
		RequestID: contextutils.GetRequestID(r.Context()),
		Timestamp: time.Now().Unix(),
	})
}

func write(w http.ResponseWriter, status int, body *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
