package whisperer

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the cloud path is invoked without an API
// key. It fails before any network call is made.
var ErrNotConfigured = errors.New("whisperer API key is not configured")

// ErrEmptyResult is returned when extraction completed but produced no usable
// text after all retrieval attempts. Empty text is a failure, never "no
// transactions".
var ErrEmptyResult = errors.New("extraction completed but produced no usable text")

// WhispererError wraps an error that occurred during a cloud extraction
// operation
type WhispererError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *WhispererError) Error() string {
	if e.Err == nil {
		return "whisperer error: " + e.Op
	}
	return "whisperer error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *WhispererError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a non-success HTTP status from the extraction
// service
type HTTPStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("whisperer %s returned HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// RemoteError reports that the extraction service explicitly failed a job
type RemoteError struct {
	WhisperHash string
	Message     string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote extraction failed for job %s: %s", e.WhisperHash, e.Message)
}

// PollTimeoutError reports that an asynchronous job never reached a terminal
// state within the polling attempt cap
type PollTimeoutError struct {
	WhisperHash string
	Attempts    int
}

// Error implements the error interface
func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("extraction job %s still processing after %d polling attempts", e.WhisperHash, e.Attempts)
}
