package ocr

import (
	"errors"
	"fmt"
)

// ErrNoText indicates recognition produced no usable text across all pages
var ErrNoText = errors.New("recognition produced no text")

// ErrNoPages indicates the document rendered to zero pages
var ErrNoPages = errors.New("document rendered to zero pages")

// ErrTerminated indicates the engine was shut down and cannot accept work
var ErrTerminated = errors.New("engine has been terminated")

// EngineError represents an error from the local recognition engine
type EngineError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine error: operation=%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Err
}
