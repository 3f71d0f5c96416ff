// Package sensor converts conditioned samples into physical quantities and
// implements the multi-channel measurements of the acquisition board.
package sensor

import (
	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/filter"
)

// Voltage references in millivolts.
const (
	ReferenceAVCC uint32 = 5000
	Reference2V56 uint32 = 2560
)

const (
	// lightSamples is the block average applied before a light reading.
	lightSamples = 8
	// pairSamples is the block average of each input of a two-channel
	// measurement.
	pairSamples = 4

	// bandgapScale is 1.1 V * 1024 expressed in millivolt counts.
	bandgapScale = 1126400

	// selfTestMin and selfTestMax bracket the 1.1 V bandgap read against
	// the 2.56 V reference (nominally 440).
	selfTestMin = 400
	selfTestMax = 480

	// conversionCycles is the ADC clock count of one conversion.
	conversionCycles = 13
)

// Millivolts converts a sample to millivolts against refMV.
func Millivolts(v adc.Sample, refMV uint32) uint32 {
	return uint32(v) * refMV / 1024
}

// MillivoltsFloat is Millivolts without truncation.
func MillivoltsFloat(v adc.Sample, refMV float32) float32 {
	return float32(v) * refMV / 1024
}

// ReadMillivolts acquires one sample and converts it against refMV.
func ReadMillivolts(src adc.Source, channel int, refMV uint32) uint32 {
	return Millivolts(src.Read(channel), refMV)
}

// DividerInput recovers the input of a resistive divider from its output:
// Vin = Vout * (R1 + R2) / R2. A zero R2 yields 0.
func DividerInput(vout, r1, r2 float32) float32 {
	if r2 == 0 {
		return 0
	}
	return vout * (r1 + r2) / r2
}

// LightPercent maps a light-sensor divider sample to 0..100 %.
func LightPercent(v adc.Sample) uint8 {
	v = min(v, adc.MaxSample)
	return uint8(uint32(v) * 100 / uint32(adc.MaxSample))
}

// ReadLight takes an 8-sample block average and converts it to percent.
func ReadLight(src adc.Source, channel int) uint8 {
	return LightPercent(filter.Average(src, channel, lightSamples))
}

// CelsiusLM35 converts an LM35 output (10 mV/°C) to degrees plus offset.
func CelsiusLM35(mV uint32, offset int) int {
	return int(mV/10) + offset
}

// CelsiusCalibrated applies a gain in thousandths and an offset to an LM35
// reading: temp*scale/1000 + offset.
func CelsiusCalibrated(mV uint32, offset int, scale uint32) int {
	temp := int64(mV / 10)
	return int(temp*int64(scale)/1000) + offset
}

// CelsiusFloat converts an LM35 output to fractional degrees.
func CelsiusFloat(mV float32) float32 {
	return mV / 10
}

// Differential is the signed difference of two 4-sample block averages.
func Differential(src adc.Source, positive, negative int) int {
	pos := filter.Average(src, positive, pairSamples)
	neg := filter.Average(src, negative, pairSamples)
	return int(pos) - int(neg)
}

// Ratiometric returns signal as a percentage of reference, both 4-sample
// block averages. A zero reference yields 0.
func Ratiometric(src adc.Source, signal, reference int) uint32 {
	sig := filter.Average(src, signal, pairSamples)
	ref := filter.Average(src, reference, pairSamples)
	if ref == 0 {
		return 0
	}
	return uint32(sig) * 100 / uint32(ref)
}

// Scan reads n consecutive channels starting at start, one sample each.
// dst is reused when its capacity suffices.
func Scan(src adc.Source, dst []adc.Sample, start, n int) []adc.Sample {
	dst = resize(dst, n)
	for i := range dst {
		dst[i] = src.Read(start + i)
	}
	return dst
}

// Burst takes n back-to-back samples from one channel into dst, reusing it
// when its capacity suffices.
func Burst(src adc.Source, dst []adc.Sample, channel, n int) []adc.Sample {
	dst = resize(dst, n)
	for i := range dst {
		dst[i] = src.Read(channel)
	}
	return dst
}

// SampleRateHz is the conversion rate for a CPU clock and ADC prescaler.
func SampleRateHz(cpuHz, prescaler uint32) uint32 {
	if prescaler == 0 {
		return 0
	}
	return cpuHz / prescaler / conversionCycles
}

// VCCMillivolts derives the supply voltage from a bandgap reading. A zero
// reading yields 0.
func VCCMillivolts(bandgap adc.Sample) uint32 {
	if bandgap == 0 {
		return 0
	}
	return bandgapScale / uint32(bandgap)
}

// SelfTest checks a bandgap reading taken against the 2.56 V reference.
func SelfTest(bandgap adc.Sample) bool {
	return bandgap >= selfTestMin && bandgap <= selfTestMax
}

func resize(dst []adc.Sample, n int) []adc.Sample {
	n = max(n, 0)
	if cap(dst) >= n {
		return dst[:n]
	}
	return make([]adc.Sample, n)
}
