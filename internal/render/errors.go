package render

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a backend could not produce a PNG.
type ErrorKind string

const (
	KindRejected    ErrorKind = "rejected"    // input could not be parsed
	KindUnavailable ErrorKind = "unavailable" // backend dependency missing
	KindTimeout     ErrorKind = "timeout"
	KindIO          ErrorKind = "io"     // transient file handling
	KindEncode      ErrorKind = "encode" // png encoding
	KindEmpty       ErrorKind = "empty"  // backend returned no bytes
	KindPanic       ErrorKind = "panic"
)

var (
	ErrEmptyOutput     = errors.New("backend returned empty output")
	ErrNoIntrinsicSize = errors.New("svg has no intrinsic size")
)

// RenderError is returned by every backend. The converter treats it as
// opaque apart from logging and metrics.
type RenderError struct {
	Backend string
	Op      string
	Kind    ErrorKind
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s renderer %s failed (%s): %v", e.Backend, e.Op, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func newRenderError(backend, op string, kind ErrorKind, err error) error {
	return &RenderError{
		Backend: backend,
		Op:      op,
		Kind:    kind,
		Err:     err,
	}
}

// kindOf returns the kind of err, or "error" for foreign errors.
func kindOf(err error) string {
	var re *RenderError
	if errors.As(err, &re) {
		return string(re.Kind)
	}
	return "error"
}
