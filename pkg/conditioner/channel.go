// Package conditioner chains the signal-conditioning components of one
// analog input: filter, auto-range, statistics, threshold, log and
// calibration.
package conditioner

import (
	"log/slog"
	"sync"
	"time"

	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/autorange"
	"github.com/itohio/goadc/pkg/calib"
	"github.com/itohio/goadc/pkg/config"
	"github.com/itohio/goadc/pkg/filter"
	"github.com/itohio/goadc/pkg/logbuf"
	"github.com/itohio/goadc/pkg/stats"
	"github.com/itohio/goadc/pkg/threshold"
)

// Measurement is the outcome of conditioning one filtered sample.
type Measurement struct {
	Timestamp  time.Time
	Channel    int
	Name       string
	Raw        adc.Sample // Filtered, uncalibrated value
	Range      autorange.Reading
	Calibrated adc.Sample
	Crossed    bool // Threshold state changed on this sample
	State      threshold.State
	Stats      stats.Tracker // Copy taken after this sample
}

// Channel conditions one logical input. Process and the Converter must not
// be used concurrently on the same Channel.
type Channel struct {
	name    string
	channel int
	kind    string
	samples int
	log     *slog.Logger

	moving   filter.MovingAverage
	stats    *stats.Tracker
	detector *threshold.Detector
	history  *logbuf.Logger
	ranger   *autorange.Ranger
	calib    *calib.Calibrator

	callbacks []func(Measurement)
	cbMu      sync.RWMutex
}

// New builds a channel from its configuration. A nil log selects
// slog.Default().
func New(cfg config.ChannelConfig, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	return &Channel{
		name:     cfg.Name,
		channel:  cfg.Channel,
		kind:     cfg.Filter.Kind,
		samples:  cfg.Filter.Samples,
		log:      log.With("channel", cfg.Name),
		stats:    stats.New(),
		detector: threshold.New(adc.Sample(cfg.Threshold.Low), adc.Sample(cfg.Threshold.High)),
		history:  logbuf.New(cfg.Channel, cfg.LogCapacity),
		ranger:   autorange.New(cfg.Gain),
		calib:    calib.FromConfig(cfg.Calibration),
	}
}

// FromConfig builds every configured channel in order.
func FromConfig(cfg *config.Config, log *slog.Logger) []*Channel {
	channels := make([]*Channel, 0, len(cfg.Channels))
	for _, cc := range cfg.Channels {
		channels = append(channels, New(cc, log))
	}
	return channels
}

// Process acquires one filtered value from src and conditions it.
func (c *Channel) Process(src adc.Source) Measurement {
	return c.condition(c.acquire(src))
}

// acquire runs the configured filter against the source.
func (c *Channel) acquire(src adc.Source) adc.Sample {
	switch c.kind {
	case config.FilterMedian:
		return filter.Median(src, c.channel, c.samples)
	case config.FilterMoving:
		return c.moving.Read(src, c.channel)
	case config.FilterAverage:
		return filter.Average(src, c.channel, c.samples)
	default:
		return src.Read(c.channel)
	}
}

// condition runs the post-filter stages in order: auto-range, statistics,
// threshold, log, calibration.
func (c *Channel) condition(v adc.Sample) Measurement {
	reading := c.ranger.Classify(v)
	if reading.Saturated {
		c.log.Warn("auto-range saturated", "raw", v, "gain", c.ranger.Gain())
	}

	c.stats.Observe(v)

	crossed := c.detector.Check(v)
	if crossed {
		c.log.Debug("threshold crossed", "value", v, "state", c.detector.State)
	}

	c.history.Push(v)

	m := Measurement{
		Timestamp:  time.Now(),
		Channel:    c.channel,
		Name:       c.name,
		Raw:        v,
		Range:      reading,
		Calibrated: c.calib.Apply(v),
		Crossed:    crossed,
		State:      c.detector.State,
		Stats:      *c.stats,
	}

	c.notifyCallbacks(m)
	return m
}

// OnUpdate registers a callback invoked with every Measurement. Callbacks
// run on the goroutine that processed the sample and should return quickly.
func (c *Channel) OnUpdate(callback func(Measurement)) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.callbacks = append(c.callbacks, callback)
}

func (c *Channel) notifyCallbacks(m Measurement) {
	c.cbMu.RLock()
	callbacks := make([]func(Measurement), len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(m)
		}
	}
}

// Reset clears statistics, history, the moving average window and any
// latched threshold event. Thresholds, gain and calibration are kept.
func (c *Channel) Reset() {
	c.stats.Reset()
	c.history.Clear()
	c.moving.Reset()
	c.detector.Configure(c.detector.Low, c.detector.High)
}

// History copies the logged values oldest-first into dst.
func (c *Channel) History(dst []adc.Sample) []adc.Sample {
	return c.history.Snapshot(dst)
}

// Name returns the configured channel name.
func (c *Channel) Name() string { return c.name }

// Input returns the physical input number.
func (c *Channel) Input() int { return c.channel }

// Stats returns a copy of the running statistics.
func (c *Channel) Stats() stats.Tracker { return *c.stats }

// Detector exposes the threshold detector, e.g. to acknowledge events.
func (c *Channel) Detector() *threshold.Detector { return c.detector }

// Ranger exposes the auto-ranger, e.g. to change the gain.
func (c *Channel) Ranger() *autorange.Ranger { return c.ranger }

// Calibrator exposes the calibration table.
func (c *Channel) Calibrator() *calib.Calibrator { return c.calib }
