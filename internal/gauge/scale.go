// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gauge

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrDegenerateRange is returned when an input range has zero width.
var ErrDegenerateRange = errors.New("gauge: degenerate input range")

// Map linearly remaps value from [inMin,inMax] to [outMin,outMax].
// Values outside the input range are extrapolated, not clamped.
// inMin == inMax divides by zero; callers must not pass such a range.
func Map[T constraints.Float](value, inMin, inMax, outMin, outMax T) T {
	return outMin + (outMax-outMin)*(value-inMin)/(inMax-inMin)
}

// Scale is a measurement range projected onto a meter of N segments.
type Scale struct {
	Min, Max float64
	N        int
}

// NewScale validates the range before any mapping takes place.
func NewScale(lo, hi float64, n int) (Scale, error) {
	if lo == hi {
		return Scale{}, fmt.Errorf("%w: [%g,%g]", ErrDegenerateRange, lo, hi)
	}
	if n <= 0 {
		return Scale{}, fmt.Errorf("gauge: segment count must be positive, got %d", n)
	}
	return Scale{Min: lo, Max: hi, N: n}, nil
}

// Segments maps value into the segment domain of the scale and truncates
// toward zero. The result may be negative or exceed N; the renderer handles
// both.
func (s Scale) Segments(value float64) int {
	return Segments(value, s.Min, s.Max, s.N)
}

// Segments maps value from [inMin,inMax] onto [0,n] and truncates toward zero.
func Segments(value, inMin, inMax float64, n int) int {
	return int(Map(value, inMin, inMax, 0, float64(n)))
}
