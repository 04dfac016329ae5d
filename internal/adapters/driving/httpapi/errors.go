package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSafetyViolation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error(), Code: "internal_error"}
	if e, ok := domain.AsError(err); ok {
		body = errorBody{Error: e.Message, Code: e.Code}
		if len(e.Details) > 0 || e.Field != "" {
			body.Details = make(map[string]any, len(e.Details)+1)
			for k, v := range e.Details {
				body.Details[k] = v
			}
			if e.Field != "" {
				body.Details["field"] = e.Field
			}
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body, rejecting malformed input as a validation error.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError(domain.CodeInvalidValue, "body", "invalid JSON body: "+err.Error())
	}
	return nil
}
