// Package autorange classifies samples against the usable part of the input
// range and scales them by a power-of-two gain.
package autorange

import (
	"math"

	"github.com/itohio/goadc/pkg/adc"
)

const (
	// OverrangeLimit and UnderrangeLimit are 90% and 10% of full scale,
	// rounded to the nearest count.
	OverrangeLimit  = (adc.MaxSample*9 + 5) / 10
	UnderrangeLimit = (adc.MaxSample + 5) / 10
)

// Reading is the outcome of classifying one sample.
type Reading struct {
	Raw        adc.Sample
	Scaled     adc.Sample
	Overrange  bool
	Underrange bool
	// Saturated is set when Raw << gain did not fit and Scaled was clamped.
	Saturated bool
}

// Ranger applies the current gain. It never adjusts the gain itself; that is
// left to the caller reacting to Overrange and Underrange.
type Ranger struct {
	gain uint8
	last Reading
}

// New returns a Ranger with the given gain.
func New(gain uint8) *Ranger {
	return &Ranger{gain: gain}
}

// SetGain changes the shift exponent. Any value is accepted; shifts that do
// not fit a Sample saturate in Classify.
func (r *Ranger) SetGain(gain uint8) {
	r.gain = gain
}

// Gain returns the current shift exponent.
func (r *Ranger) Gain() uint8 {
	return r.gain
}

// Classify flags v and scales it by the current gain. The shift saturates at
// the largest Sample instead of wrapping.
func (r *Ranger) Classify(v adc.Sample) Reading {
	scaled, saturated := shift(v, r.gain)
	reading := Reading{
		Raw:        v,
		Scaled:     scaled,
		Overrange:  v > OverrangeLimit,
		Underrange: v < UnderrangeLimit,
		Saturated:  saturated,
	}

	r.last = reading
	return reading
}

// shift computes v << gain, clamped to math.MaxUint16.
func shift(v adc.Sample, gain uint8) (adc.Sample, bool) {
	if v == 0 {
		return 0, false
	}
	// Shifting a uint32 by 16 or more would drop bits, and any non-zero
	// value shifted that far no longer fits anyway.
	if gain >= 16 {
		return math.MaxUint16, true
	}
	scaled := uint32(v) << gain
	if scaled > math.MaxUint16 {
		return math.MaxUint16, true
	}
	return adc.Sample(scaled), false
}

// Read acquires one sample from channel and classifies it.
func (r *Ranger) Read(src adc.Source, channel int) Reading {
	return r.Classify(src.Read(channel))
}

// Last returns the most recent Reading.
func (r *Ranger) Last() Reading {
	return r.last
}
