//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"strconv"
	"time"
)

var (
	adcs [len(channelPins)]machine.ADC
	uart = machine.UART0

	// Serial buffer for reading request lines
	serialBuffer   [8]byte
	serialPos      int
	serialOverflow bool

	reply []byte
)

func main() {
	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	for i, pin := range channelPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		adcs[i] = machine.ADC{Pin: pin}
		adcs[i].Configure(adcConfig)
	}

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	reply = make([]byte, 0, 16)

	for {
		processSerial()
		time.Sleep(50 * time.Microsecond)
	}
}

// convert returns the averaged 10-bit reading of a channel.
func convert(channel int) uint16 {
	var sum uint32
	for range OVERSAMPLE {
		sum += uint32(adcs[channel].Get() >> ADC_SHIFT)
	}
	return uint16(sum / OVERSAMPLE)
}

// processSerial consumes "A<ch>\n" requests and answers "<ch>,<value>\n".
// Malformed requests are dropped without a reply; the host times out.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		switch {
		case data == '\n' || data == '\r':
			if serialPos > 0 && !serialOverflow {
				handleRequest(serialBuffer[:serialPos])
			}
			serialPos = 0
			serialOverflow = false
		case data == ' ' || data == '\t':
		case serialPos < len(serialBuffer):
			serialBuffer[serialPos] = data
			serialPos++
		default:
			// Overlong line, discard until newline
			serialOverflow = true
		}
	}
}

func handleRequest(line []byte) {
	if len(line) < 2 || line[0] != 'A' {
		return
	}

	channel, err := strconv.Atoi(string(line[1:]))
	if err != nil || channel < 0 || channel >= len(adcs) {
		return
	}

	reply = strconv.AppendInt(reply[:0], int64(channel), 10)
	reply = append(reply, ',')
	reply = strconv.AppendUint(reply, uint64(convert(channel)), 10)
	reply = append(reply, '\n')
	uart.Write(reply)
}
