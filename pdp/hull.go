// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import (
	"sort"

	"github.com/aclements/go-gg/table"
)

// A Hull is the 2-D convex hull of a set of training points. It
// bounds the region of feature space with training-data support;
// grid points outside it are extrapolation.
type Hull struct {
	// xs and ys are the hull vertices in counterclockwise order,
	// starting from the lexicographically smallest point. A hull
	// of one or two distinct points degenerates to a point or a
	// segment.
	xs, ys []float64
}

// ConvexHull computes the convex hull of the (xcol, ycol) training
// values in data. Both columns must be numeric. The hull depends
// only on the set of points, not on row order.
func ConvexHull(data *table.Table, xcol, ycol string) (*Hull, error) {
	xs, ys, err := numericPair(data, xcol, ycol)
	if err != nil {
		return nil, err
	}
	return hullOf(xs, ys), nil
}

func numericPair(data *table.Table, xcol, ycol string) (xs, ys []float64, err error) {
	for _, col := range []string{xcol, ycol} {
		c := data.Column(col)
		if c == nil {
			return nil, nil, &InvalidFeatureError{Feature: col}
		}
		v, ok := numericValues(c)
		if !ok {
			return nil, nil, &InvalidFeatureError{Feature: col, Reason: "convex hull requires a numeric column"}
		}
		if xs == nil {
			xs = v
		} else {
			ys = v
		}
	}
	return xs, ys, nil
}

// hullOf is Andrew's monotone chain. Points are sorted and
// deduplicated first, so the result is canonical regardless of input
// order.
func hullOf(xs, ys []float64) *Hull {
	type point struct{ x, y float64 }
	pts := make([]point, len(xs))
	for i := range xs {
		pts[i] = point{xs[i], ys[i]}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})
	j := 0
	for i, p := range pts {
		if i == 0 || p != pts[j-1] {
			pts[j] = p
			j++
		}
	}
	pts = pts[:j]

	if len(pts) <= 2 {
		h := new(Hull)
		for _, p := range pts {
			h.xs = append(h.xs, p.x)
			h.ys = append(h.ys, p.y)
		}
		return h
	}

	cross := func(o, a, b point) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}
	var lower, upper []point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	h := new(Hull)
	for _, p := range lower[:len(lower)-1] {
		h.xs = append(h.xs, p.x)
		h.ys = append(h.ys, p.y)
	}
	for _, p := range upper[:len(upper)-1] {
		h.xs = append(h.xs, p.x)
		h.ys = append(h.ys, p.y)
	}
	return h
}

// Vertices returns the hull's vertex coordinates in
// counterclockwise order. The returned slices must not be modified.
func (h *Hull) Vertices() (xs, ys []float64) {
	return h.xs, h.ys
}

// Contains reports whether (x, y) lies inside the hull or on its
// boundary.
func (h *Hull) Contains(x, y float64) bool {
	switch len(h.xs) {
	case 0:
		return false
	case 1:
		return x == h.xs[0] && y == h.ys[0]
	case 2:
		return onSegment(h.xs[0], h.ys[0], h.xs[1], h.ys[1], x, y)
	}
	n := len(h.xs)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		// (x, y) must be on or to the left of every
		// counterclockwise edge.
		c := (h.xs[j]-h.xs[i])*(y-h.ys[i]) - (h.ys[j]-h.ys[i])*(x-h.xs[i])
		if c < 0 {
			return false
		}
	}
	return true
}

func onSegment(x0, y0, x1, y1, x, y float64) bool {
	if (x1-x0)*(y-y0)-(y1-y0)*(x-x0) != 0 {
		return false
	}
	dot := (x-x0)*(x1-x0) + (y-y0)*(y1-y0)
	return dot >= 0 && dot <= (x1-x0)*(x1-x0)+(y1-y0)*(y1-y0)
}
