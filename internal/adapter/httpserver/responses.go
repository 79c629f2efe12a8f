package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP status codes. Anything
// unrecognized is a 500 and its message is not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	msg := "internal server error"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code, codeStr = http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrFailedPrecondition):
		code, codeStr = http.StatusBadRequest, "FAILED_PRECONDITION"
	case errors.Is(err, domain.ErrUnauthorized):
		code, codeStr = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		code, codeStr = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		code, codeStr = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		code, codeStr = http.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrRateLimited):
		code, codeStr = http.StatusTooManyRequests, "RATE_LIMITED"
	}
	if code != http.StatusInternalServerError {
		msg = err.Error()
	} else if r != nil {
		LoggerFrom(r).Error("request failed", "error", err, "path", r.URL.Path)
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: msg, Details: details}})
}
