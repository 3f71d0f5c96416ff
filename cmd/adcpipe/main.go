package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/conditioner"
	"github.com/itohio/goadc/pkg/config"
	"github.com/lmittmann/tint"
)

func main() {
	var (
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag    = flag.Bool("mock", false, "Use simulated device instead of serial port")
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		countFlag   = flag.Int("n", 0, "Number of polling rounds (0 = until interrupted)")
		verboseFlag = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *mockFlag {
		cfg.Source = config.SourceMock
	}

	log := newLogger(cfg.LogLevel, *verboseFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *countFlag, log); err != nil {
		log.Error("acquisition failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	}))
}

func newDevice(cfg *config.Config, log *slog.Logger) adc.Device {
	if cfg.Source == config.SourceSerial {
		return adc.New(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.Timeout, log)
	}
	return adc.NewMock(&cfg.Mock)
}

// run polls every channel once per sampling interval until ctx is done or
// rounds polling rounds have completed.
func run(ctx context.Context, cfg *config.Config, rounds int, log *slog.Logger) error {
	device := newDevice(cfg, log)
	if err := device.Connect(); err != nil {
		return fmt.Errorf("failed to connect to %s device: %w", cfg.Source, err)
	}
	defer device.Close()

	channels := conditioner.FromConfig(cfg, log)
	for _, ch := range channels {
		ch.OnUpdate(func(m conditioner.Measurement) {
			if m.Crossed {
				log.Info("threshold crossed", "channel", m.Name, "state", m.State, "value", m.Raw)
			}
			if m.Range.Overrange || m.Range.Underrange {
				log.Debug("out of range", "channel", m.Name, "raw", m.Raw,
					"over", m.Range.Overrange, "under", m.Range.Underrange)
			}
		})
	}

	log.Info("acquisition started",
		"source", cfg.Source, "channels", len(channels), "interval", cfg.Sampling.Interval)
	defer summarize(channels, log)

	ticker := time.NewTicker(cfg.Sampling.Interval)
	defer ticker.Stop()

	for round := 0; rounds == 0 || round < rounds; round++ {
		if round > 0 {
			select {
			case <-ctx.Done():
				log.Info("interrupted")
				return nil
			case <-ticker.C:
			}
		}

		for _, ch := range channels {
			m := ch.Process(device)
			log.Info("measurement",
				"channel", m.Name,
				"raw", m.Raw,
				"scaled", m.Range.Scaled,
				"value", m.Calibrated,
				"state", m.State)
		}
	}

	return nil
}

func summarize(channels []*conditioner.Channel, log *slog.Logger) {
	for _, ch := range channels {
		st := ch.Stats()
		if st.Empty() {
			log.Info("summary", "channel", ch.Name(), "count", 0)
			continue
		}
		log.Info("summary",
			"channel", ch.Name(),
			"count", st.Count,
			"min", st.Min,
			"max", st.Max,
			"average", st.Average,
			"logged", len(ch.History(nil)))
	}
}
