package lnerror

import "net/http"

type (
	// An LNError represents the error format rendered by the server.
	LNError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if lnerr, ok := err.(*LNError); ok {
		return lnerr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new LNError with the given message.
func New(message string) *LNError {
	return &LNError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new LNError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *LNError {
	return &LNError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// InvalidInput returns an LNError for a malformed or out-of-bounds payload.
func InvalidInput(message string) *LNError {
	return NewWithTagCode(http.StatusBadRequest, "invalid-input", message)
}

// NotFound returns an LNError for an unknown record id.
func NotFound(message string) *LNError {
	return NewWithTagCode(http.StatusNotFound, "not-found", message)
}

// AccessDenied returns the LNError used for both missing and wrong
// credentials. The message stays generic on purpose so the response does not
// reveal whether a key was presented or recognized.
func AccessDenied() *LNError {
	return NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid login credentials.")
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Error implements error interface.
func (e *LNError) Error() string {
	return e.FieldError.Message
}
