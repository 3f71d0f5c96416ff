package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, SourceMock, cfg.Source)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 200*time.Millisecond, cfg.Serial.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Sampling.Interval)
	require.Len(t, cfg.Channels, 1)
	assert.Equal(t, FilterMedian, cfg.Channels[0].Filter.Kind)
	assert.Len(t, cfg.Channels[0].Calibration, 2)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, SourceMock, cfg.Source)
}

func TestLoad_ValidYAML(t *testing.T) {
	name := writeTemp(t, `
source: serial
log_level: debug

serial:
  port: "/dev/ttyUSB1"
  baud_rate: 57600
  timeout: 500ms

sampling:
  interval: 250ms

channels:
  - name: temperature
    channel: 0
    filter:
      kind: average
      samples: 4
    threshold:
      low: 100
      high: 300
  - name: pot
    channel: 2
    filter:
      kind: moving
    calibration:
      - raw: 0
        real: 0
      - raw: 512
        real: 100
      - raw: 1023
        real: 120
    log_capacity: 32
    gain: 2
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, SourceSerial, cfg.Source)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, 500*time.Millisecond, cfg.Serial.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Sampling.Interval)

	require.Len(t, cfg.Channels, 2)
	assert.Equal(t, "temperature", cfg.Channels[0].Name)
	assert.Equal(t, FilterConfig{Kind: FilterAverage, Samples: 4}, cfg.Channels[0].Filter)
	assert.Equal(t, ThresholdConfig{Low: 100, High: 300}, cfg.Channels[0].Threshold)

	pot := cfg.Channels[1]
	assert.Equal(t, 2, pot.Channel)
	assert.Equal(t, []CalibrationPoint{{0, 0}, {512, 100}, {1023, 120}}, pot.Calibration)
	assert.Equal(t, 32, pot.LogCapacity)
	assert.Equal(t, uint8(2), pot.Gain)
	assert.Equal(t, uint16(1023), pot.Threshold.High, "unset band defaults to full scale")
}

func TestLoad_InvalidYAML(t *testing.T) {
	name := writeTemp(t, "invalid: yaml: content: [")

	cfg, err := Load(name)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	name := writeTemp(t, `
serial:
  port: "/dev/ttyUSB0"
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, SourceMock, cfg.Source)                      // default
	assert.Equal(t, 115200, cfg.Serial.BaudRate)                 // default
	assert.Equal(t, 100*time.Millisecond, cfg.Sampling.Interval) // default
	assert.Equal(t, "light", cfg.Channels[0].Name)               // default
}

func TestLoad_ChannelDefaults(t *testing.T) {
	name := writeTemp(t, `
channels:
  - channel: 5
`)

	cfg, err := Load(name)
	require.NoError(t, err)
	require.Len(t, cfg.Channels, 1)
	assert.Equal(t, "adc5", cfg.Channels[0].Name)
	assert.Equal(t, FilterNone, cfg.Channels[0].Filter.Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "unknown source",
			modify: func(c *Config) { c.Source = "spi" },
		},
		{
			name: "serial without port",
			modify: func(c *Config) {
				c.Source = SourceSerial
				c.Serial.Port = ""
			},
		},
		{
			name:   "unknown filter",
			modify: func(c *Config) { c.Channels[0].Filter.Kind = "kalman" },
		},
		{
			name:   "channel out of range",
			modify: func(c *Config) { c.Channels[0].Channel = MaxChannel + 1 },
		},
		{
			name:   "negative channel",
			modify: func(c *Config) { c.Channels[0].Channel = -1 },
		},
		{
			name: "duplicate channel",
			modify: func(c *Config) {
				c.Channels = append(c.Channels, ChannelConfig{Name: "dup", Channel: c.Channels[0].Channel, Filter: FilterConfig{Kind: FilterNone}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_HighestChannel(t *testing.T) {
	cfg := Default()
	cfg.Channels[0].Channel = MaxChannel
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	name := writeTemp(t, `
channels:
  - channel: 1
    filter:
      kind: bogus
`)

	cfg, err := Load(name)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Nil(t, cfg)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Sampling.Interval = time.Second
	cfg.Channels[0].Gain = 3

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, time.Second, loaded.Sampling.Interval)
	assert.Equal(t, cfg.Channels, loaded.Channels)
}
