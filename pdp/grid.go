// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// defaultResolution caps the grid size of a high-cardinality numeric
// feature when no resolution is given.
const defaultResolution = 51

// GridOptions configures BuildGrid. The zero value gives every
// feature its unique observed values, up to defaultResolution points
// for numeric features.
type GridOptions struct {
	// Values optionally gives an explicit, non-empty value set
	// for a feature. A []string slice makes the axis categorical;
	// any numeric slice makes it numeric. Explicit values are
	// used verbatim, in the order given.
	Values map[string]table.Slice

	// Resolution is the number of quantile-spaced points for
	// numeric features without explicit values. 0 means default;
	// negative is rejected.
	Resolution int

	// AllValues uses every unique observed value for numeric
	// features, regardless of cardinality.
	AllValues bool
}

// A Grid enumerates the cartesian product of per-feature value sets.
// Tuples are ordered so that the last feature varies fastest and the
// first varies slowest; this order is part of the output contract
// and matches nested iteration over the axes.
type Grid struct {
	axes []axis
	n    int
}

// An axis is one feature's value set. Exactly one of nums and
// levels is non-nil.
type axis struct {
	name   string
	nums   []float64
	levels []string
}

func (ax *axis) size() int {
	if ax.nums != nil {
		return len(ax.nums)
	}
	return len(ax.levels)
}

// BuildGrid constructs the evaluation grid for features over the
// observed values in data. Numeric features without explicit values
// get evenly spaced quantiles of their observed distribution (or all
// unique values, if there are no more of them than the resolution
// asks for); categorical (string) features always get their sorted
// unique observed levels.
func BuildGrid(data *table.Table, features []string, opt GridOptions) (*Grid, error) {
	if opt.Resolution < 0 {
		return nil, &InvalidResolutionError{Resolution: opt.Resolution}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no features named")
	}
	seen := make(map[string]bool)
	g := &Grid{n: 1}
	for _, f := range features {
		if seen[f] {
			return nil, &InvalidFeatureError{Feature: f, Reason: "listed twice"}
		}
		seen[f] = true
		ax, err := buildAxis(data, f, opt)
		if err != nil {
			return nil, err
		}
		g.axes = append(g.axes, ax)
		g.n *= ax.size()
	}
	return g, nil
}

func buildAxis(data *table.Table, feature string, opt GridOptions) (axis, error) {
	col := data.Column(feature)
	if col == nil {
		return axis{}, &InvalidFeatureError{Feature: feature}
	}

	if vals, ok := opt.Values[feature]; ok {
		return explicitAxis(feature, vals)
	}

	if levels, ok := col.([]string); ok {
		return axis{name: feature, levels: uniqueStrings(levels)}, nil
	}
	xs, ok := numericValues(col)
	if !ok {
		return axis{}, &InvalidFeatureError{Feature: feature, Reason: fmt.Sprintf("column type %T is neither numeric nor string", col)}
	}

	uniq := uniqueFloats(xs)
	res := opt.Resolution
	if res == 0 {
		res = defaultResolution
	}
	if opt.AllValues || len(uniq) <= res {
		return axis{name: feature, nums: uniq}, nil
	}

	// More unique values than grid points: sample evenly spaced
	// quantiles of the observed distribution. The quantiles are
	// taken over the full column, not the unique values, so value
	// multiplicity weights the grid.
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	sample := stats.Sample{Xs: sorted, Sorted: true}
	if res == 1 {
		return axis{name: feature, nums: []float64{sample.Quantile(0.5)}}, nil
	}
	nums := make([]float64, res)
	for i, q := range vec.Linspace(0, 1, res) {
		nums[i] = sample.Quantile(q)
	}
	return axis{name: feature, nums: nums}, nil
}

func explicitAxis(feature string, vals table.Slice) (axis, error) {
	if levels, ok := vals.([]string); ok {
		if len(levels) == 0 {
			return axis{}, &InvalidFeatureError{Feature: feature, Reason: "empty grid value set"}
		}
		return axis{name: feature, levels: levels}, nil
	}
	xs, ok := numericValues(vals)
	if !ok {
		return axis{}, &InvalidFeatureError{Feature: feature, Reason: fmt.Sprintf("grid value type %T is neither numeric nor string", vals)}
	}
	if len(xs) == 0 {
		return axis{}, &InvalidFeatureError{Feature: feature, Reason: "empty grid value set"}
	}
	return axis{name: feature, nums: xs}, nil
}

// Len returns the number of grid tuples: the product of the
// per-feature value set sizes.
func (g *Grid) Len() int {
	return g.n
}

// Features returns the feature names, in the order supplied to
// BuildGrid.
func (g *Grid) Features() []string {
	fs := make([]string, len(g.axes))
	for i := range g.axes {
		fs[i] = g.axes[i].name
	}
	return fs
}

// Table materializes the grid tuples as a table with one column per
// feature and one row per tuple, in grid order.
func (g *Grid) Table() *table.Table {
	var b table.Builder
	for ax := range g.axes {
		b.Add(g.axes[ax].name, g.column(ax, nil, 1))
	}
	return b.Done()
}

// index returns the position of tuple i on axis ax. The last axis
// varies fastest.
func (g *Grid) index(i, ax int) int {
	for j := len(g.axes) - 1; j > ax; j-- {
		i /= g.axes[j].size()
	}
	return i % g.axes[ax].size()
}

// numeric2 reports whether the first two axes are numeric.
func (g *Grid) numeric2() bool {
	return len(g.axes) >= 2 && g.axes[0].nums != nil && g.axes[1].nums != nil
}

// point2 returns tuple i projected onto the first two (numeric)
// axes.
func (g *Grid) point2(i int) (x, y float64) {
	return g.axes[0].nums[g.index(i, 0)], g.axes[1].nums[g.index(i, 1)]
}

// column materializes one feature's output column. Tuples where
// keep is false are omitted (a nil keep keeps everything), and each
// kept value is repeated rep times consecutively.
func (g *Grid) column(ax int, keep []bool, rep int) table.Slice {
	a := &g.axes[ax]
	if a.nums != nil {
		out := make([]float64, 0, g.n*rep)
		for i := 0; i < g.n; i++ {
			if keep != nil && !keep[i] {
				continue
			}
			v := a.nums[g.index(i, ax)]
			for r := 0; r < rep; r++ {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]string, 0, g.n*rep)
	for i := 0; i < g.n; i++ {
		if keep != nil && !keep[i] {
			continue
		}
		v := a.levels[g.index(i, ax)]
		for r := 0; r < rep; r++ {
			out = append(out, v)
		}
	}
	return out
}

// overlay builds the working copy for tuple i: data with every
// feature column overwritten by the tuple's value. data itself is
// not modified.
func (g *Grid) overlay(data *table.Table, i int) *table.Table {
	b := table.NewBuilder(data)
	for ax := range g.axes {
		a := &g.axes[ax]
		if a.nums != nil {
			col := make([]float64, data.Len())
			v := a.nums[g.index(i, ax)]
			for r := range col {
				col[r] = v
			}
			b.Add(a.name, col)
		} else {
			col := make([]string, data.Len())
			v := a.levels[g.index(i, ax)]
			for r := range col {
				col[r] = v
			}
			b.Add(a.name, col)
		}
	}
	return b.Done()
}

// numericValues converts a slice of any numeric element type to
// []float64. It reports false for non-numeric slices (including
// []string and []bool).
func numericValues(col table.Slice) ([]float64, bool) {
	rv := reflect.ValueOf(col)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	switch rv.Type().Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return nil, false
	}
	var xs []float64
	slice.Convert(&xs, col)
	return xs, true
}

func uniqueFloats(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	j := 0
	for i, x := range out {
		if i == 0 || x != out[j-1] {
			out[j] = x
			j++
		}
	}
	return out[:j]
}

func uniqueStrings(ss []string) []string {
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
