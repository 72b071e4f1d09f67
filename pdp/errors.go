// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import (
	"fmt"
	"strings"
)

// InvalidFeatureError reports a feature name that is absent from the
// training table's schema, or a feature whose column cannot be used
// as requested.
type InvalidFeatureError struct {
	Feature string
	Reason  string
}

func (e *InvalidFeatureError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unknown feature %q", e.Feature)
	}
	return fmt.Sprintf("invalid feature %q: %s", e.Feature, e.Reason)
}

// InvalidResolutionError reports a negative grid resolution.
type InvalidResolutionError struct {
	Resolution int
}

func (e *InvalidResolutionError) Error() string {
	return fmt.Sprintf("invalid grid resolution %d", e.Resolution)
}

// UnsupportedOutputError reports that the model cannot produce the
// requested output shape, such as class probabilities from a model
// that is not a ClassPredictor.
type UnsupportedOutputError struct {
	Reason string
}

func (e *UnsupportedOutputError) Error() string {
	return "unsupported model output: " + e.Reason
}

// InvalidClassError reports a focus class the model does not have.
type InvalidClassError struct {
	Class   string
	Classes []string
}

func (e *InvalidClassError) Error() string {
	return fmt.Sprintf("unknown class %q; model classes are %s", e.Class, strings.Join(e.Classes, ", "))
}

// PredictionFailureError wraps a model failure during grid
// evaluation. The whole computation fails; no partial table is
// returned.
type PredictionFailureError struct {
	Err error
}

func (e *PredictionFailureError) Error() string {
	return "prediction failed: " + e.Err.Error()
}

func (e *PredictionFailureError) Unwrap() error {
	return e.Err
}

// DegenerateProbabilityError reports a zero class probability, whose
// log-odds are undefined. Set Partial.ProbFloor to clamp
// probabilities instead.
type DegenerateProbabilityError struct {
	// Class is the index of the offending class.
	Class int
}

func (e *DegenerateProbabilityError) Error() string {
	return fmt.Sprintf("class %d has zero probability; log-odds are undefined (set ProbFloor to clamp)", e.Class)
}

// InsufficientDimensionError reports a convex hull request with
// fewer than two features.
type InsufficientDimensionError struct {
	Have int
}

func (e *InsufficientDimensionError) Error() string {
	return fmt.Sprintf("convex hull restriction needs 2 features; have %d", e.Have)
}
