// Package calib maps raw readings to real-world values through a short
// table of calibration points and piecewise-linear interpolation.
package calib

import (
	"math"

	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/config"
)

// MaxPoints is the capacity of a Calibrator.
const MaxPoints = 10

// Point pairs a raw reading with the real value it represents.
type Point struct {
	Raw  adc.Sample
	Real adc.Sample
}

// Calibrator holds up to MaxPoints points in insertion order. Points are
// expected in ascending Raw order; they are never re-sorted.
// The zero value has no points and maps every input to itself.
type Calibrator struct {
	points [MaxPoints]Point
	n      int
}

// FromConfig builds a Calibrator from configured points. Points past
// MaxPoints are dropped.
func FromConfig(points []config.CalibrationPoint) *Calibrator {
	c := &Calibrator{}
	for _, p := range points {
		c.Add(adc.Sample(p.Raw), adc.Sample(p.Real))
	}
	return c
}

// Add appends a point. Once MaxPoints are stored it does nothing and
// returns false.
func (c *Calibrator) Add(raw, value adc.Sample) bool {
	if c.n >= MaxPoints {
		return false
	}
	c.points[c.n] = Point{Raw: raw, Real: value}
	c.n++
	return true
}

// Len returns the number of stored points.
func (c *Calibrator) Len() int {
	return c.n
}

// Points returns a copy of the stored points.
func (c *Calibrator) Points() []Point {
	out := make([]Point, c.n)
	copy(out, c.points[:c.n])
	return out
}

// Reset removes all points.
func (c *Calibrator) Reset() {
	c.n = 0
}

// Apply converts a raw value.
//
// Without points the value is returned unchanged. Otherwise the first
// adjacent pair whose raw range contains v (inclusive) is interpolated with
// truncation. Values below the first point map to its real value; any other
// unmatched value maps to the last point's real value. A pair with equal raw
// values maps to its left real value.
func (c *Calibrator) Apply(v adc.Sample) adc.Sample {
	if c.n == 0 {
		return v
	}

	for i := 0; i < c.n-1; i++ {
		lo, hi := c.points[i], c.points[i+1]
		if v < lo.Raw || v > hi.Raw {
			continue
		}
		if hi.Raw == lo.Raw {
			return lo.Real
		}
		return interpolate(lo, hi, v)
	}

	if v < c.points[0].Raw {
		return c.points[0].Real
	}
	return c.points[c.n-1].Real
}

func interpolate(lo, hi Point, v adc.Sample) adc.Sample {
	offset := int64(v) - int64(lo.Raw)
	rawSpan := int64(hi.Raw) - int64(lo.Raw)
	realSpan := int64(hi.Real) - int64(lo.Real)

	out := int64(lo.Real) + offset*realSpan/rawSpan
	return adc.Sample(min(max(out, 0), math.MaxUint16))
}
