package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/quizrace/internal/model"
)

// ErrorResponse is the wire shape for every error: a single message
type ErrorResponse struct {
	Error string `json:"error"`
}

// httpError combines an HTTP status code with a client-visible message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message})
}

// toHTTPError converts an error to an httpError. Unexpected errors map
// to a generic 500 without leaking internals.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrUsernameRequired):
		return &httpError{http.StatusBadRequest, "Username is required"}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, "Player not found"}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, "Question not found"}
	default:
		return &httpError{http.StatusInternalServerError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewNotFoundError creates a not-found error with the given message
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, message}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, "Internal server error"}
}
