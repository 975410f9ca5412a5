// Command tiltglow is the firmware of the tilt-reactive matrix: it reads the
// LIS3DH, picks an animation from the tilt and draws it on the 8x8 NeoPixel
// matrix every 50ms. Telemetry goes out over USB serial.
package main

import (
	"machine"

	"libdb.so/tiltglow/feather"
	"libdb.so/tiltglow/ledserial"
)

func main() {
	queue := ledserial.NewQueue(feather.TelemetryQueueSize)
	go queue.Pump(WrapSerial(machine.Serial), nil, feather.TelemetryRetry, func(err error) {
		queue.Error(err)
	})

	d, err := NewDevice(queue)
	if err != nil {
		queue.Error(err)
		queue.Push(ledserial.PanicPacket{})
		select {}
	}

	d.Run()
}
