// Package adc provides raw analog sample sources: the serial link to the
// acquisition MCU, a simulated device and a fixed sequence for tests.
package adc

import "github.com/itohio/goadc/pkg/config"

// Sample is one unprocessed conversion result in [0, MaxSample]. Calibrated
// values reuse the type and may exceed MaxSample.
type Sample uint16

const (
	// MaxSample is the full scale of a 10-bit conversion.
	MaxSample Sample = 1023
	// Channels is the number of multiplexed analog inputs on the MCU.
	Channels = config.Channels
)

// Source performs one synchronous conversion on a logical channel.
// Implementations never fail; they define their own fallback value.
type Source interface {
	Read(channel int) Sample
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(channel int) Sample

// Read calls f(channel).
func (f SourceFunc) Read(channel int) Sample {
	return f(channel)
}

// Device is a Source backed by something that has to be connected first.
type Device interface {
	Source
	Connect() error
	Close() error
	IsConnected() bool
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Mock)(nil)
	_ Source = (*Sequence)(nil)
)
