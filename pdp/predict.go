// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import "github.com/aclements/go-gg/table"

// A Predictor produces one prediction per row of a table. The
// partial dependence engine calls Predict once per grid tuple, on a
// working copy of the training table with the features of interest
// overwritten.
//
// Predict must be deterministic for fixed input: the engine's output
// is otherwise not reproducible. Predict must not retain or modify
// t.
type Predictor interface {
	Predict(t *table.Table) ([]float64, error)
}

// A ClassPredictor is a classification model that can report class
// probabilities. Models passed to Compute with a focus class named
// must implement ClassPredictor in addition to Predictor (a
// classifier's Predict conventionally reports its first class's
// probability).
type ClassPredictor interface {
	// Classes returns the class labels, in the column order of
	// PredictProb's rows. It must be stable across calls.
	Classes() []string

	// PredictProb returns one probability row per row of t. Each
	// row has one entry per class, all entries in [0, 1] and
	// summing to 1.
	PredictProb(t *table.Table) ([][]float64, error)
}
