// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestFitLinearExact(t *testing.T) {
	// y = 2x + 3w + 1 is recovered exactly.
	tab := new(table.Builder).
		Add("x", []float64{0, 1, 2, 3, 4}).
		Add("w", []float64{1, 0, 2, 1, 3}).
		Add("y", []float64{4, 3, 11, 10, 18}).
		Done()
	m, err := fitLinear(tab, "y")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"x", "w"}; !reflect.DeepEqual(m.cols, want) {
		t.Fatalf("feature columns should be %v; got %v", want, m.cols)
	}
	ys, err := m.Predict(tab)
	if err != nil {
		t.Fatal(err)
	}
	want := tab.MustColumn("y").([]float64)
	for i := range ys {
		if math.Abs(ys[i]-want[i]) > 1e-9 {
			t.Errorf("prediction %d should be %v; got %v", i, want[i], ys[i])
		}
	}
}

func TestFitLogitSimplex(t *testing.T) {
	tab := new(table.Builder).
		Add("x", []float64{-2, -1.5, -1, 1, 1.5, 2}).
		Add("species", []string{"a", "a", "a", "b", "b", "b"}).
		Done()
	m, err := fitLogit(tab, "species")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(m.Classes(), want) {
		t.Fatalf("classes should be %v; got %v", want, m.Classes())
	}
	probs, err := m.PredictProb(tab)
	if err != nil {
		t.Fatal(err)
	}
	if len(probs) != tab.Len() {
		t.Fatalf("should have %d probability rows; got %d", tab.Len(), len(probs))
	}
	labels := tab.MustColumn("species").([]string)
	for i, row := range probs {
		sum := 0.0
		for _, p := range row {
			if p < 0 || p > 1 {
				t.Errorf("probability %v out of [0, 1]", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d should sum to 1; got %v", i, sum)
		}
		// The true class should be favored on separable data.
		k := 0
		if labels[i] == "b" {
			k = 1
		}
		if row[k] <= 0.5 {
			t.Errorf("row %d should favor class %q; got %v", i, labels[i], row)
		}
	}
}

func TestFitLinearErrors(t *testing.T) {
	tab := new(table.Builder).
		Add("cat", []string{"a", "b"}).
		Add("y", []float64{1, 2}).
		Done()
	if _, err := fitLinear(tab, "cat"); err == nil {
		t.Error("non-numeric response should be rejected")
	}
	if _, err := fitLinear(tab, "y"); err == nil {
		t.Error("fit with no numeric features should be rejected")
	}
	if _, err := fitLogit(tab, "y"); err == nil {
		t.Error("numeric response should be rejected by fitLogit")
	}
}
