package filter

import "github.com/itohio/goadc/pkg/adc"

const (
	// MovingAverageSize is the history length of MovingAverage.
	MovingAverageSize = 8

	MinAverageSamples = 1
	MaxAverageSamples = 64
)

// MovingAverage is the mean of the last MovingAverageSize values. Until the
// window first fills, the mean covers only the values pushed so far.
// The zero value is an empty window ready for use.
type MovingAverage struct {
	history [MovingAverageSize]adc.Sample
	index   int
	filled  bool
}

// Update pushes v, overwriting the oldest value once the window is full, and
// returns the integer mean of the valid entries.
func (m *MovingAverage) Update(v adc.Sample) adc.Sample {
	m.history[m.index] = v
	m.index = (m.index + 1) % MovingAverageSize
	if m.index == 0 {
		m.filled = true
	}

	n := m.Len()
	var sum uint32
	for _, s := range m.history[:n] {
		sum += uint32(s)
	}
	return adc.Sample(sum / uint32(n))
}

// Read acquires one sample from channel and pushes it.
func (m *MovingAverage) Read(src adc.Source, channel int) adc.Sample {
	return m.Update(src.Read(channel))
}

// Len returns the number of valid entries in the window.
func (m *MovingAverage) Len() int {
	if m.filled {
		return MovingAverageSize
	}
	return m.index
}

// Reset empties the window.
func (m *MovingAverage) Reset() {
	m.index = 0
	m.filled = false
}

// Average acquires n samples from channel and returns their integer mean.
// n is clamped to [MinAverageSamples, MaxAverageSamples].
func Average(src adc.Source, channel, n int) adc.Sample {
	n = clamp(n, MinAverageSamples, MaxAverageSamples)

	var sum uint32
	for range n {
		sum += uint32(src.Read(channel))
	}
	return adc.Sample(sum / uint32(n))
}

// AverageOf returns the integer mean of samples already acquired. An empty
// input yields 0.
func AverageOf(samples []adc.Sample) adc.Sample {
	if len(samples) == 0 {
		return 0
	}
	var sum uint32
	for _, v := range samples {
		sum += uint32(v)
	}
	return adc.Sample(sum / uint32(len(samples)))
}
