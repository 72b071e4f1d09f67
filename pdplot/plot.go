// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-pdp/pdp"
)

// plot renders a partial dependence table. One feature gives a line
// plot (one line per observation in ICE mode) with decile rug marks;
// two numeric features give a level plot; a categorical second
// feature becomes line color; any third feature becomes facets.
func plot(out *table.Table, p pdp.Partial, data *table.Table) (*gg.Plot, int, int) {
	plot := gg.NewPlot(out)
	nrows, ncols := 1, 1

	features := p.Features
	if len(features) > 3 {
		// Facet on the third feature and ignore the rest for
		// display; the table output has them all.
		log.Printf("plotting the first 3 of %d features", len(features))
		features = features[:3]
	}

	x := features[0]
	switch {
	case len(features) >= 2 && isNumeric(out, features[1]) && !p.ICE:
		plot.Add(gg.LayerTiles{X: x, Y: features[1], Fill: "value"})

	case len(features) >= 2:
		plot.GroupBy(features[1])
		if p.ICE {
			plot.GroupBy("obs")
		}
		plot.Add(gg.LayerLines{X: x, Y: "value", Color: features[1]})
		rugMarks(plot, data, out, x)

	default:
		if p.ICE {
			plot.GroupBy("obs")
		}
		plot.Add(gg.LayerLines{X: x, Y: "value"})
		rugMarks(plot, data, out, x)
	}

	if len(features) == 3 {
		plot.Add(gg.FacetX{Col: features[2]})
		ncols = facetCount(out, features[2])
	}
	return plot, nrows, ncols
}

// rugMarks overlays decile rug marks for feature x along the bottom
// of the plot. Categorical features get no rug.
func rugMarks(plot *gg.Plot, data, out *table.Table, x string) {
	if !isNumeric(out, x) {
		return
	}
	deciles, err := pdp.Deciles(data, x)
	if err != nil {
		log.Fatal(err)
	}
	floor := valueFloor(out)
	ys := make([]float64, len(deciles))
	for i := range ys {
		ys[i] = floor
	}
	rug := new(table.Builder).Add(x, deciles).Add("value", ys).Done()

	defer plot.Save().Restore()
	plot.SetData(rug)
	plot.Add(gg.LayerPoints{X: x, Y: "value"})
}

func valueFloor(out *table.Table) float64 {
	vals := out.MustColumn("value").([]float64)
	min := vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
	}
	return min
}

func isNumeric(t *table.Table, col string) bool {
	_, ok := numericColumn(t, col)
	return ok
}

func facetCount(t *table.Table, col string) int {
	if levels, ok := t.Column(col).([]string); ok {
		return len(uniqueLevels(levels))
	}
	xs, _ := numericColumn(t, col)
	seen := make(map[float64]bool)
	for _, x := range xs {
		seen[x] = true
	}
	return len(seen)
}
