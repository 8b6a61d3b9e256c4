package utils

import (
	"errors"
	"net/http"
)

var (
	// ErrRemoteCall is returned when the captioning model call fails or returns no text.
	ErrRemoteCall = errors.New("remote caption call failed")

	// ErrAssetLookup is returned when an <img src> does not resolve to a build output.
	ErrAssetLookup = errors.New("image asset not found in build output")

	// ErrPathEscape is returned when a requested file would resolve outside the image directory.
	ErrPathEscape = errors.New("file name escapes image directory")

	ErrInvalidFileName = errors.New("file name is required")

	// ErrObserverBundle is returned when the observer bundle cannot be matched to exactly one output.
	ErrObserverBundle = errors.New("observer bundle not resolvable")

	ErrEntryConfig = errors.New("unsupported entry configuration")
)

// CustomError digunakan untuk error dengan status code yang spesifik
type CustomError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError Fungsi helper untuk membuat CustomError
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message}
}

// WrapError maps a domain error onto the HTTP status the runtime service answers with.
func WrapError(err error) *CustomError {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidFileName), errors.Is(err, ErrPathEscape):
		status = http.StatusBadRequest
	case errors.Is(err, ErrRemoteCall):
		status = http.StatusBadGateway
	}
	return &CustomError{StatusCode: status, Message: err.Error(), Err: err}
}
