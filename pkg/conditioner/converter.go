package conditioner

import (
	"time"

	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/config"
	"github.com/itohio/goadc/pkg/filter"
)

// Converter turns a stream of already acquired samples into Measurements.
type Converter func(in <-chan adc.Sample) <-chan Measurement

// NewConverter returns a Converter feeding ch. The output is closed once the
// input is closed.
//
// Median and block-average channels consume their configured sample count
// per Measurement; a trailing partial block is dropped when the input
// closes. Other filters produce one Measurement per sample.
func NewConverter(ch *Channel, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan adc.Sample) <-chan Measurement {
		out := make(chan Measurement, bufSize)

		go func() {
			defer close(out)

			block := make([]adc.Sample, 0, ch.blockSize())
			for v := range in {
				block = append(block, v)
				if len(block) < cap(block) {
					continue
				}

				m := ch.condition(ch.filterBlock(block))
				block = block[:0]

				select {
				case out <- m:
				case <-time.After(time.Second):
					ch.log.Warn("converter output channel full, dropping measurement")
				}
			}
		}()

		return out
	}
}

// blockSize is the number of input samples behind one Measurement.
func (c *Channel) blockSize() int {
	switch c.kind {
	case config.FilterMedian:
		return min(max(c.samples, filter.MinMedianSamples), filter.MaxMedianSamples)
	case config.FilterAverage:
		return min(max(c.samples, filter.MinAverageSamples), filter.MaxAverageSamples)
	default:
		return 1
	}
}

// filterBlock applies the channel filter to a full block.
func (c *Channel) filterBlock(block []adc.Sample) adc.Sample {
	switch c.kind {
	case config.FilterMedian:
		return filter.MedianOf(block)
	case config.FilterAverage:
		return filter.AverageOf(block)
	case config.FilterMoving:
		return c.moving.Update(block[0])
	default:
		return block[0]
	}
}
