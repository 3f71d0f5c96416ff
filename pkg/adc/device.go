package adc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the UART rate the firmware is flashed with.
	DefaultBaudRate = 115200
	// DefaultTimeout bounds a single conversion round trip.
	DefaultTimeout = 200 * time.Millisecond

	// pollInterval is the serial read timeout; ReadContext re-checks the
	// context and its deadline between polls.
	pollInterval = 20 * time.Millisecond
	maxLineSize  = 32
)

// Serial reads samples from the acquisition MCU over a serial line.
//
// Request: "A<channel>\n". Reply: "<channel>,<value>\n".
type Serial struct {
	port     string
	baudRate int
	timeout  time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	conn      io.ReadWriteCloser
	rx        []byte
	connected bool
	last      [Channels]Sample
}

// New creates a Serial device for the given port. Zero baudRate or timeout
// select the defaults; a nil logger selects slog.Default().
func New(port string, baudRate int, timeout time.Duration, log *slog.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		timeout:  timeout,
		log:      log.With("port", port),
	}
}

// Ports returns the names of the serial ports present on the host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// Connect opens the serial port.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}
	if err := port.SetReadTimeout(pollInterval); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", d.port, err)
	}

	d.attach(port)
	d.log.Info("serial source connected", "baud", d.baudRate)
	return nil
}

// attach installs an open connection. Callers hold d.mu.
func (d *Serial) attach(conn io.ReadWriteCloser) {
	d.conn = conn
	d.rx = d.rx[:0]
	d.connected = true
}

// Close closes the port. Closing a closed device is a no-op.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}
	d.connected = false

	err := d.conn.Close()
	d.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", d.port, err)
	}
	return nil
}

// IsConnected returns whether the port is open.
func (d *Serial) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Read performs one conversion. On any failure the error is logged and the
// last good sample of that channel (initially 0) is returned.
func (d *Serial) Read(channel int) Sample {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	v, err := d.ReadContext(ctx, channel)
	if err != nil {
		fallback := d.lastGood(channel)
		d.log.Warn("conversion failed, reusing last sample", "channel", channel, "fallback", fallback, "err", err)
		return fallback
	}
	return v
}

// ReadContext requests one conversion and waits for its reply until ctx is
// done or the device timeout elapses.
func (d *Serial) ReadContext(ctx context.Context, channel int) (Sample, error) {
	if channel < 0 || channel >= Channels {
		return 0, fmt.Errorf("channel %d out of range [0, %d)", channel, Channels)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return 0, ErrNotConnected
	}

	// Drop leftovers of a reply that arrived after its request timed out.
	d.rx = d.rx[:0]

	if _, err := fmt.Fprintf(d.conn, "A%d\n", channel); err != nil {
		return 0, fmt.Errorf("failed to send conversion request: %w", err)
	}

	line, err := d.readLine(ctx)
	if err != nil {
		return 0, err
	}

	got, v, err := parseLine(line)
	if err != nil {
		return 0, fmt.Errorf("failed to parse reply %q: %w", line, err)
	}
	if got != channel {
		return 0, fmt.Errorf("%w: requested %d, got %d", ErrChannelMismatch, channel, got)
	}

	d.last[channel] = v
	return v, nil
}

func (d *Serial) lastGood(channel int) Sample {
	if channel < 0 || channel >= Channels {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last[channel]
}

// readLine returns the next non-empty line, keeping any bytes past the
// newline for the next call. Callers hold d.mu.
func (d *Serial) readLine(ctx context.Context) (string, error) {
	deadline := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	var buf [maxLineSize]byte
	for {
		if i := bytes.IndexByte(d.rx, '\n'); i >= 0 {
			line := strings.TrimSpace(string(d.rx[:i]))
			d.rx = append(d.rx[:0], d.rx[i+1:]...)
			if line == "" {
				continue
			}
			return line, nil
		}
		if len(d.rx) > maxLineSize {
			d.rx = d.rx[:0]
			return "", fmt.Errorf("reply exceeds %d bytes", maxLineSize)
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}

		n, err := d.conn.Read(buf[:])
		d.rx = append(d.rx, buf[:n]...)
		if err != nil {
			return "", fmt.Errorf("failed to read from serial port: %w", err)
		}
	}
}

// parseLine parses one reply line.
// Format: channel,value
// Example: 3,512
func parseLine(line string) (int, Sample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	channel, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid channel: %w", err)
	}
	if channel >= Channels {
		return 0, 0, fmt.Errorf("channel out of range: %d (max %d)", channel, Channels-1)
	}

	value, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value: %w", err)
	}
	if value > uint64(MaxSample) {
		return 0, 0, fmt.Errorf("value out of range: %d (max %d)", value, MaxSample)
	}

	return int(channel), Sample(value), nil
}
