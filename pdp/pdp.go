// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdp computes partial dependence of a fitted model's
// predictions on a subset of its features.
//
// The partial dependence of a model on features z_s is the expected
// prediction as a function of z_s, averaging over the empirical
// distribution of all other features. Given a training table and a
// Predictor, Partial evaluates this expectation over a grid of z_s
// values: for each grid tuple it overwrites the z_s columns of every
// training row with that tuple, asks the model for predictions, and
// averages them. The result is a table with one column per feature
// of interest followed by a "value" column, suitable for plotting.
//
// For classification models the averaged quantity is, by default,
// the centered log-odds of a chosen focus class rather than the raw
// probability; see Scale.
//
// Individual conditional expectation (ICE) mode skips the averaging
// and emits one curve per training observation; the per-tuple mean
// of the ICE rows is exactly the aggregate partial dependence.
package pdp

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Partial computes a partial dependence table. Features is the only
// required field. All other fields have reasonable default zero
// values.
//
// The result of Compute has the Features columns, in the order
// given, followed by a "value" column holding the partial dependence
// estimate. In ICE mode an "obs" column holding the 0-based training
// row index follows "value", and there is one row per grid tuple per
// training observation, in grid-major order.
type Partial struct {
	// Features names the columns whose partial dependence is
	// computed. It must be non-empty and every name must be a
	// column of the training table.
	Features []string

	// Values optionally gives an explicit set of grid values for
	// a feature, overriding grid construction for that feature.
	// Each value set must be a non-empty slice.
	Values map[string]table.Slice

	// Resolution is the number of quantile-spaced grid points to
	// use for a numeric feature. If Resolution is 0, a feature
	// gets all of its unique observed values, up to a cap of 51,
	// beyond which 51 quantiles are used. Negative resolutions
	// are rejected.
	Resolution int

	// AllValues requests every unique observed value for numeric
	// features regardless of cardinality.
	AllValues bool

	// ICE requests individual conditional expectation curves:
	// one row per grid tuple per training observation, with no
	// averaging.
	ICE bool

	// Class names the focus class for classification models. If
	// Class is non-empty the model must also implement
	// ClassPredictor, and "value" holds class scores on the scale
	// given by Scale instead of raw predictions.
	Class string

	// Scale selects the classification output scale. The default
	// is Logit (centered log-odds).
	Scale Scale

	// ProbFloor, if positive, clamps class probabilities from
	// below before taking logs on the Logit scale. Zero
	// probability is otherwise an error, since silently flooring
	// would bias the curve; setting ProbFloor is the explicit
	// opt-in.
	ProbFloor float64

	// RestrictToHull drops grid tuples whose projection onto the
	// first two features falls outside the convex hull of the
	// training values of those features. It requires at least
	// two numeric features.
	RestrictToHull bool

	// Workers bounds the number of grid tuples evaluated
	// concurrently. If Workers is 0, it defaults to GOMAXPROCS.
	Workers int
}

// Compute evaluates the partial dependence of model's predictions on
// p.Features over the training table data. data is never modified;
// each grid tuple is evaluated on a fresh working copy. If any
// prediction fails, Compute fails with a *PredictionFailureError and
// returns no table.
func (p Partial) Compute(ctx context.Context, data *table.Table, model Predictor) (*table.Table, error) {
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("empty training table")
	}
	grid, err := BuildGrid(data, p.Features, GridOptions{
		Values:     p.Values,
		Resolution: p.Resolution,
		AllValues:  p.AllValues,
	})
	if err != nil {
		return nil, err
	}

	// Resolve the classification path up front.
	var cls ClassPredictor
	focus := -1
	if p.Class != "" {
		var ok bool
		cls, ok = model.(ClassPredictor)
		if !ok {
			return nil, &UnsupportedOutputError{Reason: fmt.Sprintf("class %q requested, but model cannot predict class probabilities", p.Class)}
		}
		classes := cls.Classes()
		if len(classes) < 2 {
			return nil, &UnsupportedOutputError{Reason: fmt.Sprintf("model reports %d classes; need at least 2", len(classes))}
		}
		for i, c := range classes {
			if c == p.Class {
				focus = i
				break
			}
		}
		if focus < 0 {
			return nil, &InvalidClassError{Class: p.Class, Classes: classes}
		}
	}

	var hull *Hull
	if p.RestrictToHull {
		if len(p.Features) < 2 {
			return nil, &InsufficientDimensionError{Have: len(p.Features)}
		}
		if !grid.numeric2() {
			bad := p.Features[0]
			if grid.axes[0].nums != nil {
				bad = p.Features[1]
			}
			return nil, &InvalidFeatureError{Feature: bad, Reason: "convex hull restriction requires numeric grid values"}
		}
		hull, err = ConvexHull(data, p.Features[0], p.Features[1])
		if err != nil {
			return nil, err
		}
	}

	// Evaluate grid tuples. Each worker owns a disjoint set of
	// tuples and writes into tuple-indexed slots, so the result
	// is assembled in grid order no matter how workers
	// interleave.
	n := data.Len()
	per := 1
	if p.ICE {
		per = n
	}
	vals := make([]float64, grid.Len()*per)
	if err := p.forEachTuple(ctx, grid, func(i int) error {
		wc := grid.overlay(data, i)
		ys, err := p.predictions(wc, model, cls, focus, n)
		if err != nil {
			return err
		}
		if p.ICE {
			copy(vals[i*n:(i+1)*n], ys)
		} else {
			vals[i] = stats.Sample{Xs: ys}.Mean()
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return p.assemble(grid, hull, vals, n), nil
}

// predictions returns one (possibly class-scaled) prediction per
// training observation for one working copy.
func (p Partial) predictions(wc *table.Table, model Predictor, cls ClassPredictor, focus, n int) ([]float64, error) {
	if cls == nil {
		ys, err := model.Predict(wc)
		if err != nil {
			return nil, &PredictionFailureError{Err: err}
		}
		if len(ys) != n {
			return nil, &PredictionFailureError{Err: fmt.Errorf("model returned %d predictions for %d observations", len(ys), n)}
		}
		return ys, nil
	}

	probs, err := cls.PredictProb(wc)
	if err != nil {
		return nil, &PredictionFailureError{Err: err}
	}
	if len(probs) != n {
		return nil, &PredictionFailureError{Err: fmt.Errorf("model returned %d probability rows for %d observations", len(probs), n)}
	}
	k := len(cls.Classes())
	ys := make([]float64, n)
	for o, row := range probs {
		if len(row) != k {
			return nil, &PredictionFailureError{Err: fmt.Errorf("probability row has %d entries for %d classes", len(row), k)}
		}
		s, err := classScore(row, focus, p.Scale, p.ProbFloor)
		if err != nil {
			return nil, err
		}
		ys[o] = s
	}
	return ys, nil
}

// forEachTuple runs f for every grid tuple index, spreading tuples
// across workers. The first error cancels the remaining work and is
// returned.
func (p Partial) forEachTuple(ctx context.Context, grid *Grid, f func(i int) error) error {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > grid.Len() {
		workers = grid.Len()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	idxs := make(chan int)
	go func() {
		defer close(idxs)
		for i := 0; i < grid.Len(); i++ {
			select {
			case idxs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxs {
				if err := f(i); err != nil {
					fail(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// assemble builds the output table from per-tuple (or per-tuple,
// per-observation) values, filtering out-of-hull tuples if
// requested.
func (p Partial) assemble(grid *Grid, hull *Hull, vals []float64, n int) *table.Table {
	keep := make([]bool, grid.Len())
	for i := range keep {
		keep[i] = true
		if hull != nil {
			x, y := grid.point2(i)
			keep[i] = hull.Contains(x, y)
		}
	}

	var b table.Builder
	if !p.ICE {
		for ax := range grid.axes {
			b.Add(grid.axes[ax].name, grid.column(ax, keep, 1))
		}
		out := make([]float64, 0, len(vals))
		for i, v := range vals {
			if keep[i] {
				out = append(out, v)
			}
		}
		b.Add("value", out)
		return b.Done()
	}

	for ax := range grid.axes {
		b.Add(grid.axes[ax].name, grid.column(ax, keep, n))
	}
	obs := make([]int, 0, len(vals))
	out := make([]float64, 0, len(vals))
	for i := 0; i < grid.Len(); i++ {
		if !keep[i] {
			continue
		}
		for o := 0; o < n; o++ {
			obs = append(obs, o)
			out = append(out, vals[i*n+o])
		}
	}
	b.Add("value", out)
	b.Add("obs", obs)
	return b.Done()
}
