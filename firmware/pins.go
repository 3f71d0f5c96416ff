//go:build tinygo

package main

import "machine"

const (
	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 10   // Bits reported to the host (0-1023)

	// machine.ADC.Get always returns a 16-bit scaled value.
	ADC_SHIFT = 16 - ADC_RESOLUTION

	// Conversions averaged per request to suppress MCU-side jitter.
	OVERSAMPLE = 4

	// Serial configuration
	// Longest reply is "7,1023\n" = 7 bytes. 115200 baud leaves ample room
	// for a host polling all channels every millisecond.
	UART_BAUD_RATE = 115200
)

// Analog inputs, indexed by logical channel.
var channelPins = [8]machine.Pin{
	machine.A0,
	machine.A1,
	machine.A2,
	machine.A3,
	machine.A4,
	machine.A5,
	machine.A6,
	machine.A7,
}
