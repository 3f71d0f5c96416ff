package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Channels is the number of multiplexed analog inputs on the MCU. Valid
// channel numbers are 0 to MaxChannel.
const (
	Channels   = 8
	MaxChannel = Channels - 1
)

// Source kinds.
const (
	SourceMock   = "mock"
	SourceSerial = "serial"
)

// Filter kinds.
const (
	FilterNone    = "none"
	FilterMedian  = "median"
	FilterMoving  = "moving"
	FilterAverage = "average"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Source   string          `yaml:"source"`
	LogLevel string          `yaml:"log_level"`
	Serial   SerialConfig    `yaml:"serial"`
	Mock     MockConfig      `yaml:"mock"`
	Sampling SamplingConfig  `yaml:"sampling"`
	Channels []ChannelConfig `yaml:"channels"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string        `yaml:"port"`
	BaudRate int           `yaml:"baud_rate"`
	Timeout  time.Duration `yaml:"timeout"` // Per-conversion round trip limit
}

// MockConfig contains simulated device configuration. Values are in ADC counts.
type MockConfig struct {
	Bias       float64       `yaml:"bias"`
	Amplitude  float64       `yaml:"amplitude"`
	Period     int           `yaml:"period"` // Waveform period in conversions
	NoiseLevel float64       `yaml:"noise_level"`
	Seed       uint64        `yaml:"seed"`
	Latency    time.Duration `yaml:"latency"` // Simulated conversion time
}

// SamplingConfig controls how often the channels are polled.
type SamplingConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ChannelConfig describes one conditioned analog input.
type ChannelConfig struct {
	Name        string             `yaml:"name"`
	Channel     int                `yaml:"channel"`
	Filter      FilterConfig       `yaml:"filter"`
	Calibration []CalibrationPoint `yaml:"calibration"`
	Threshold   ThresholdConfig    `yaml:"threshold"`
	LogCapacity int                `yaml:"log_capacity"` // 0 selects the logger default
	Gain        uint8              `yaml:"gain"`         // Auto-range shift exponent
}

// FilterConfig selects the noise filter of a channel.
type FilterConfig struct {
	Kind    string `yaml:"kind"`
	Samples int    `yaml:"samples"` // Median and block average only
}

// CalibrationPoint maps a raw reading to a real-world value.
type CalibrationPoint struct {
	Raw  uint16 `yaml:"raw"`
	Real uint16 `yaml:"real"`
}

// ThresholdConfig contains the hysteresis band of a channel.
type ThresholdConfig struct {
	Low  uint16 `yaml:"low"`
	High uint16 `yaml:"high"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Source:   SourceMock,
		LogLevel: "info",
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
			Timeout:  200 * time.Millisecond,
		},
		Mock: MockConfig{
			Bias:       512,
			Amplitude:  400,
			Period:     64,
			NoiseLevel: 8,
			Seed:       1,
		},
		Sampling: SamplingConfig{
			Interval: 100 * time.Millisecond,
		},
		Channels: []ChannelConfig{
			{
				Name:    "light",
				Channel: 1,
				Filter:  FilterConfig{Kind: FilterMedian, Samples: 5},
				Calibration: []CalibrationPoint{
					{Raw: 0, Real: 0},
					{Raw: 1023, Real: 5000},
				},
				Threshold: ThresholdConfig{Low: 200, High: 400},
			},
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports settings no component could make sense of. Numeric
// ranges are not checked here; the components clamp them.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceMock, SourceSerial:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}

	if c.Source == SourceSerial && c.Serial.Port == "" {
		return fmt.Errorf("%w: serial source without port", ErrInvalid)
	}

	seen := make(map[int]string, len(c.Channels))
	for _, ch := range c.Channels {
		if ch.Channel < 0 || ch.Channel > MaxChannel {
			return fmt.Errorf("%w: channel %q: input %d out of range [0, %d]", ErrInvalid, ch.Name, ch.Channel, MaxChannel)
		}
		if other, ok := seen[ch.Channel]; ok {
			return fmt.Errorf("%w: channels %q and %q share input %d", ErrInvalid, other, ch.Name, ch.Channel)
		}
		seen[ch.Channel] = ch.Name

		switch ch.Filter.Kind {
		case FilterNone, FilterMedian, FilterMoving, FilterAverage:
		default:
			return fmt.Errorf("%w: channel %q: unknown filter %q", ErrInvalid, ch.Name, ch.Filter.Kind)
		}
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Source == "" {
		c.Source = def.Source
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.Timeout == 0 {
		c.Serial.Timeout = def.Serial.Timeout
	}

	if c.Mock.Period == 0 {
		c.Mock.Period = def.Mock.Period
	}

	if c.Sampling.Interval == 0 {
		c.Sampling.Interval = def.Sampling.Interval
	}

	if len(c.Channels) == 0 {
		c.Channels = def.Channels
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Name == "" {
			ch.Name = fmt.Sprintf("adc%d", ch.Channel)
		}
		if ch.Filter.Kind == "" {
			ch.Filter.Kind = FilterNone
		}
		// No band configured: put the upper threshold at full scale so the
		// channel never reports a crossing.
		if ch.Threshold.Low == 0 && ch.Threshold.High == 0 {
			ch.Threshold.High = 1023
		}
	}
}
