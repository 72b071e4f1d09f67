// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdp

import "math"

// Scale selects the output scale for classification partial
// dependence.
type Scale int

const (
	// Logit reports the centered log-odds of the focus class k:
	//
	//	ln p_k − (1/K) ∑_j ln p_j
	//
	// The K per-class scores of one observation sum to zero, so
	// curves for different classes are directly comparable.
	Logit Scale = iota

	// Probability reports the raw probability of the focus
	// class.
	Probability
)

func (s Scale) String() string {
	switch s {
	case Logit:
		return "logit"
	case Probability:
		return "probability"
	}
	return "unknown"
}

// classScore reduces one observation's probability row to a scalar
// score for focus class k. On the Logit scale a zero probability is
// a *DegenerateProbabilityError unless floor is positive, in which
// case probabilities are clamped to at least floor before the log.
func classScore(probs []float64, k int, scale Scale, floor float64) (float64, error) {
	if scale == Probability {
		return probs[k], nil
	}
	sum := 0.0
	for j, p := range probs {
		if p < floor {
			p = floor
		}
		if p <= 0 {
			return 0, &DegenerateProbabilityError{Class: j}
		}
		sum += math.Log(p)
	}
	pk := probs[k]
	if pk < floor {
		pk = floor
	}
	return math.Log(pk) - sum/float64(len(probs)), nil
}
