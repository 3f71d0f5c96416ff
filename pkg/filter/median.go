// Package filter reduces noise on raw samples: median of N, moving average
// over a fixed window and a plain block average.
//
// Out of range sample counts are clamped, never rejected.
package filter

import (
	"slices"

	"github.com/itohio/goadc/pkg/adc"
)

const (
	MinMedianSamples = 3
	MaxMedianSamples = 16
)

// Median acquires n samples from channel and returns the element at sorted
// index n/2. For even n this is the upper of the two middle values. n is
// clamped to [MinMedianSamples, MaxMedianSamples].
func Median(src adc.Source, channel, n int) adc.Sample {
	n = clamp(n, MinMedianSamples, MaxMedianSamples)

	var buf [MaxMedianSamples]adc.Sample
	samples := buf[:n]
	for i := range samples {
		samples[i] = src.Read(channel)
	}

	slices.Sort(samples)
	return samples[n/2]
}

// MedianOf applies the Median selection to samples already acquired. The
// input is left untouched; an empty input yields 0.
func MedianOf(samples []adc.Sample) adc.Sample {
	if len(samples) == 0 {
		return 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
