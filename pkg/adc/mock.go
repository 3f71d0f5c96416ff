package adc

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/goadc/pkg/config"
)

// Mock simulates an analog front end: every channel carries a sine wave
// around a bias with uniform noise added. The waveform advances one step per
// conversion, so a given seed always produces the same sequence.
type Mock struct {
	cfg *config.MockConfig

	mu        sync.Mutex
	rng       *rand.Rand
	connected bool
	step      [Channels]int
}

// NewMock creates a simulated device. A nil cfg selects config.Default().Mock.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}
	return &Mock{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}
	m.connected = true
	m.step = [Channels]int{}
	return nil
}

// Close stops the simulated device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Read returns the next simulated sample; 0 while disconnected or for an
// unknown channel.
func (m *Mock) Read(channel int) Sample {
	if m.cfg.Latency > 0 {
		time.Sleep(m.cfg.Latency)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected || channel < 0 || channel >= Channels {
		return 0
	}

	step := m.step[channel]
	m.step[channel]++
	return m.generate(channel, step)
}

// generate computes the sample of a channel at a waveform step. Channels are
// phase shifted by 1/Channels of a period.
func (m *Mock) generate(channel, step int) Sample {
	period := m.cfg.Period
	if period <= 0 {
		period = 1
	}

	phase := 2 * math32.Pi * (float32(step%period)/float32(period) + float32(channel)/Channels)
	v := float32(m.cfg.Bias) + float32(m.cfg.Amplitude)*math32.Sin(phase)
	if m.cfg.NoiseLevel > 0 {
		v += float32(m.cfg.NoiseLevel) * (2*m.rng.Float32() - 1)
	}

	v = math32.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if v > float32(MaxSample) {
		return MaxSample
	}
	return Sample(v)
}
