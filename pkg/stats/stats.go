// Package stats tracks running minimum, maximum and mean of a sample stream.
package stats

import "github.com/itohio/goadc/pkg/adc"

// Tracker holds running statistics. Create it with New; the zero value is
// not a valid empty state (Min must start at full scale).
type Tracker struct {
	Min     adc.Sample
	Max     adc.Sample
	Current adc.Sample
	Sum     uint64
	Count   uint32
	Average adc.Sample
}

// New returns an empty tracker.
func New() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset empties the tracker: Min at full scale, everything else zero.
func (t *Tracker) Reset() {
	*t = Tracker{Min: adc.MaxSample}
}

// Observe records one value.
func (t *Tracker) Observe(v adc.Sample) {
	t.Current = v
	if v < t.Min {
		t.Min = v
	}
	if v > t.Max {
		t.Max = v
	}
	t.Sum += uint64(v)
	t.Count++
	t.Average = adc.Sample(t.Sum / uint64(t.Count))
}

// Acquire resets the tracker and observes n fresh samples from channel.
func (t *Tracker) Acquire(src adc.Source, channel, n int) {
	t.Reset()
	for range n {
		t.Observe(src.Read(channel))
	}
}

// Empty reports whether nothing was observed since the last reset.
func (t *Tracker) Empty() bool {
	return t.Count == 0
}
