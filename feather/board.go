// Package feather holds the pin assignments of the Adafruit Feather RP2040
// build of tiltglow.
package feather

import (
	"machine"
	"time"
)

// Pins.
var (
	// MatrixPower switches the NeoPixel matrix supply. It must be high
	// before the strip is written.
	MatrixPower = machine.D10
	// MatrixData is the WS2812 data line of the matrix.
	MatrixData = machine.D5
	// StatusLED is the red LED next to the USB port.
	StatusLED = machine.D13
)

// I2C bus of the accelerometer.
var (
	I2C    = machine.I2C1
	I2CSDA = machine.SDA_PIN
	I2CSCL = machine.SCL_PIN
)

// I2CFrequency is kept low so that long jumper wires to the sensor work.
const I2CFrequency = 48 * machine.KHz

// TelemetryQueueSize is the number of packets buffered for the USB port.
const TelemetryQueueSize = 32

// TelemetryRetry is how long forwarding pauses after a failed USB write.
const TelemetryRetry = 100 * time.Millisecond
