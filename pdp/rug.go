// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import (
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// Deciles returns rug mark positions for one numeric feature: the
// minimum, the nine deciles, and the maximum of the training column,
// in ascending order (11 values). Overlaying these on a partial
// dependence plot shows where the training data actually lives on
// that axis.
func Deciles(data *table.Table, feature string) ([]float64, error) {
	col := data.Column(feature)
	if col == nil {
		return nil, &InvalidFeatureError{Feature: feature}
	}
	xs, ok := numericValues(col)
	if !ok {
		return nil, &InvalidFeatureError{Feature: feature, Reason: "rug marks require a numeric column"}
	}
	sample := stats.Sample{Xs: xs}
	out := make([]float64, 11)
	for i, q := range vec.Linspace(0, 1, 11) {
		out[i] = sample.Quantile(q)
	}
	return out, nil
}
