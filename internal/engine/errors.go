package engine

import (
	"errors"
	"fmt"
)

// ErrArtifactUnavailable marks degraded mode: no trained model is loaded.
// It is reported through Status only, never returned from Assess.
var ErrArtifactUnavailable = errors.New("model artifact unavailable")

// PreprocessingError reports a raw field that could not be converted
type PreprocessingError struct {
	Field string
	Value string
	Err   error
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("field %q: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *PreprocessingError) Unwrap() error { return e.Err }

// InferenceError reports a classifier failure. The adapter recovers from it.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed during %s: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
