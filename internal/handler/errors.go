package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/logging"
)

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// MessageResponse acknowledges a write that returns no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorBody builds an ErrorResponse with the given code and message.
func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "plan not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err, domain.ErrValidation))
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return errorBody("validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.PlanService.Save: validation error: missing required key fields: session"
// becomes "missing required key fields: session".
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return msg
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client has gone if this fails; nothing left to report to.
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a status code and error body.
// what names the resource for not-found messages (e.g. "plan").
// Unexpected errors are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(what+" not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict", unwrapMessage(err, domain.ErrConflict)))
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody("unsupported_format", unwrapMessage(err, domain.ErrUnsupportedFormat)))
	default:
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// decodeJSON reads the request body into v. A body over the size limit
// yields 413; any other decode failure yields 422. It reports whether the
// handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDecodeError(w, err)
		return false
	}
	return true
}

// writeDecodeError answers a failed body decode: 413 when the size limit cut
// the read short, 422 otherwise.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", "request body too large"))
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid JSON body: "+err.Error()))
}

// writeRequestError reports a request rejected before reaching the service
// layer (bad path or query parameter) as 422.
func writeRequestError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
}
