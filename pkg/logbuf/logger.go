// Package logbuf records samples into a fixed-capacity ring that overwrites
// its oldest entry once full.
package logbuf

import "github.com/itohio/goadc/pkg/adc"

const (
	DefaultCapacity = 64
	MaxCapacity     = 256
)

// Logger is a FIFO ring of samples taken from one channel.
type Logger struct {
	buf     []adc.Sample
	head    int
	tail    int
	count   int
	channel int
}

// New creates a logger for channel. A capacity of 0 or less selects
// DefaultCapacity; larger values are clamped to MaxCapacity.
func New(channel, capacity int) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = min(capacity, MaxCapacity)

	return &Logger{
		buf:     make([]adc.Sample, capacity),
		channel: channel,
	}
}

// Push appends v. When the ring is full the oldest entry is discarded.
func (l *Logger) Push(v adc.Sample) {
	l.buf[l.head] = v
	l.head = (l.head + 1) % len(l.buf)

	if l.count < len(l.buf) {
		l.count++
	} else {
		l.tail = (l.tail + 1) % len(l.buf)
	}
}

// Record acquires one sample from the logger's channel and pushes it.
func (l *Logger) Record(src adc.Source) adc.Sample {
	v := src.Read(l.channel)
	l.Push(v)
	return v
}

// Pop removes and returns the oldest entry. ok is false when empty.
func (l *Logger) Pop() (v adc.Sample, ok bool) {
	if l.count == 0 {
		return 0, false
	}

	v = l.buf[l.tail]
	l.tail = (l.tail + 1) % len(l.buf)
	l.count--
	return v, true
}

// Snapshot copies the entries oldest-first into dst without removing them.
// dst is reused when its capacity suffices, otherwise a new slice is
// allocated. The returned slice is always the result.
func (l *Logger) Snapshot(dst []adc.Sample) []adc.Sample {
	if cap(dst) >= l.count {
		dst = dst[:l.count]
	} else {
		dst = make([]adc.Sample, l.count)
	}

	first := min(l.count, len(l.buf)-l.tail)
	copy(dst, l.buf[l.tail:l.tail+first])
	copy(dst[first:], l.buf[:l.count-first])
	return dst
}

// IsFull reports whether the next Push evicts an entry.
func (l *Logger) IsFull() bool {
	return l.count >= len(l.buf)
}

// Clear empties the ring. Stored values are left in place and overwritten
// by later pushes.
func (l *Logger) Clear() {
	l.head = 0
	l.tail = 0
	l.count = 0
}

// Len returns the number of entries.
func (l *Logger) Len() int {
	return l.count
}

// Cap returns the ring capacity.
func (l *Logger) Cap() int {
	return len(l.buf)
}

// Channel returns the channel Record samples.
func (l *Logger) Channel() int {
	return l.channel
}
