// Package threshold flags crossings of a hysteresis band.
package threshold

import "github.com/itohio/goadc/pkg/adc"

// State is the side of the band the signal was last seen on.
type State uint8

const (
	Below State = iota
	Above
)

func (s State) String() string {
	if s == Above {
		return "above"
	}
	return "below"
}

// Detector is a two-state hysteresis comparator. Values above High switch it
// to Above, values below Low switch it to Below, and values inside
// [Low, High] leave the state alone.
//
// With Low > High the band is meaningless; the detector then stays Below and
// never reports a crossing. Low == High is a plain comparator.
type Detector struct {
	Low   adc.Sample
	High  adc.Sample
	State State
	// Event latches on the first crossing and stays set until ClearEvent.
	Event bool
}

// New returns a detector in the Below state with no event.
func New(low, high adc.Sample) *Detector {
	d := &Detector{}
	d.Configure(low, high)
	return d
}

// Configure sets new thresholds and resets State and Event.
func (d *Detector) Configure(low, high adc.Sample) {
	*d = Detector{Low: low, High: high}
}

// Valid reports whether the thresholds form a band.
func (d *Detector) Valid() bool {
	return d.Low <= d.High
}

// Check evaluates v and reports whether it changed the state.
func (d *Detector) Check(v adc.Sample) bool {
	if !d.Valid() {
		return false
	}

	target := d.State
	switch {
	case v > d.High:
		target = Above
	case v < d.Low:
		target = Below
	}

	if target == d.State {
		return false
	}
	d.State = target
	d.Event = true
	return true
}

// ReadAndCheck acquires one sample from channel and checks it.
func (d *Detector) ReadAndCheck(src adc.Source, channel int) bool {
	return d.Check(src.Read(channel))
}

// ClearEvent acknowledges a latched crossing.
func (d *Detector) ClearEvent() {
	d.Event = false
}
