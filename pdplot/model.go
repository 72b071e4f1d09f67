// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/gonum/matrix/mat64"
)

// linearModel predicts with a least squares fit of the response on
// the numeric feature columns. Prediction reads the feature columns
// by name on every call, so it sees the values the partial
// dependence engine overwrites.
type linearModel struct {
	cols []string
	// beta holds the intercept followed by one coefficient per
	// column in cols.
	beta []float64
}

// fitLinear fits a linear model of ycol on every other numeric
// column of t by solving the normal equations
//
//	(𝐗ᵀ𝐗)β̂ = 𝐗ᵀ𝐲
//
// where 𝐗 has a leading intercept column.
func fitLinear(t *table.Table, ycol string) (*linearModel, error) {
	ys, ok := numericColumn(t, ycol)
	if !ok {
		return nil, fmt.Errorf("response column %q is not numeric", ycol)
	}
	cols := numericFeatures(t, ycol)
	if len(cols) == 0 {
		return nil, fmt.Errorf("no numeric feature columns to fit")
	}

	n := t.Len()
	beta, err := solveLeastSquares(designMatrix(t, cols), n, len(cols)+1, ys)
	if err != nil {
		return nil, err
	}
	return &linearModel{cols: cols, beta: beta}, nil
}

func (m *linearModel) Predict(t *table.Table) ([]float64, error) {
	ys := make([]float64, t.Len())
	for i := range ys {
		ys[i] = m.beta[0]
	}
	for j, col := range m.cols {
		xs, ok := numericColumn(t, col)
		if !ok {
			return nil, fmt.Errorf("missing numeric column %q", col)
		}
		for i, x := range xs {
			ys[i] += m.beta[j+1] * x
		}
	}
	return ys, nil
}

// logitModel is a one-vs-rest linear classifier: one linear score
// per class, pushed through softmax so the per-observation
// probabilities form a simplex. It is deterministic and cheap,
// which is all pdplot needs from a classifier.
type logitModel struct {
	classes []string
	scores  []*linearModel
}

// fitLogit fits one linear score per class of the string response
// column ycol, using a ±1 indicator response.
func fitLogit(t *table.Table, ycol string) (*logitModel, error) {
	labels, ok := t.Column(ycol).([]string)
	if !ok {
		return nil, fmt.Errorf("response column %q is not categorical", ycol)
	}
	classes := uniqueLevels(labels)
	if len(classes) < 2 {
		return nil, fmt.Errorf("response column %q has %d classes; need at least 2", ycol, len(classes))
	}
	cols := numericFeatures(t, ycol)
	if len(cols) == 0 {
		return nil, fmt.Errorf("no numeric feature columns to fit")
	}

	n := t.Len()
	design := designMatrix(t, cols)
	m := &logitModel{classes: classes}
	for _, class := range classes {
		ind := make([]float64, n)
		for i, l := range labels {
			if l == class {
				ind[i] = 1
			} else {
				ind[i] = -1
			}
		}
		beta, err := solveLeastSquares(design, n, len(cols)+1, ind)
		if err != nil {
			return nil, err
		}
		m.scores = append(m.scores, &linearModel{cols: cols, beta: beta})
	}
	return m, nil
}

func (m *logitModel) Classes() []string {
	return m.classes
}

func (m *logitModel) PredictProb(t *table.Table) ([][]float64, error) {
	scores := make([][]float64, len(m.classes))
	for k, sm := range m.scores {
		ys, err := sm.Predict(t)
		if err != nil {
			return nil, err
		}
		scores[k] = ys
	}
	out := make([][]float64, t.Len())
	for i := range out {
		row := make([]float64, len(m.classes))
		max := math.Inf(-1)
		for k := range row {
			if scores[k][i] > max {
				max = scores[k][i]
			}
		}
		sum := 0.0
		for k := range row {
			row[k] = math.Exp(scores[k][i] - max)
			sum += row[k]
		}
		for k := range row {
			row[k] /= sum
		}
		out[i] = row
	}
	return out, nil
}

// Predict reports the probability of the first class.
func (m *logitModel) Predict(t *table.Table) ([]float64, error) {
	probs, err := m.PredictProb(t)
	if err != nil {
		return nil, err
	}
	ys := make([]float64, len(probs))
	for i, row := range probs {
		ys[i] = row[0]
	}
	return ys, nil
}

// designMatrix returns the row-major n×(len(cols)+1) design matrix
// of t's cols with a leading intercept column.
func designMatrix(t *table.Table, cols []string) []float64 {
	n := t.Len()
	p := len(cols) + 1
	vals := make([]float64, n*p)
	for i := 0; i < n; i++ {
		vals[i*p] = 1
	}
	for j, col := range cols {
		xs, _ := numericColumn(t, col)
		for i, x := range xs {
			vals[i*p+j+1] = x
		}
	}
	return vals
}

// solveLeastSquares solves the normal equations for the row-major
// n×p design matrix in vals.
func solveLeastSquares(vals []float64, n, p int, ys []float64) ([]float64, error) {
	X := mat64.NewDense(n, p, vals)
	y := mat64.NewVector(n, ys)

	lhs := mat64.NewDense(p, p, nil)
	lhs.Mul(X.T(), X)
	rhs := mat64.NewVector(p, nil)
	rhs.MulVec(X.T(), y)

	bVals := make([]float64, p)
	b := mat64.NewVector(p, bVals)
	if err := b.SolveVec(lhs, rhs); err != nil {
		return nil, fmt.Errorf("singular design matrix: %v", err)
	}
	return bVals, nil
}

func numericColumn(t *table.Table, col string) ([]float64, bool) {
	c := t.Column(col)
	if c == nil {
		return nil, false
	}
	rv := reflect.ValueOf(c)
	switch rv.Type().Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return nil, false
	}
	var xs []float64
	slice.Convert(&xs, c)
	return xs, true
}

// numericFeatures returns every numeric column of t except ycol, in
// table order.
func numericFeatures(t *table.Table, ycol string) []string {
	var cols []string
	for _, col := range t.Columns() {
		if col == ycol {
			continue
		}
		if _, ok := numericColumn(t, col); ok {
			cols = append(cols, col)
		}
	}
	return cols
}

func uniqueLevels(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	j := 0
	for i, s := range out {
		if i == 0 || s != out[j-1] {
			out[j] = s
			j++
		}
	}
	return out[:j]
}
