package main

import (
	"context"
	"image/color"
	"machine"
	"runtime/interrupt"
	"time"

	"libdb.so/tiltglow/feather"
	"libdb.so/tiltglow/internal/led"
	"libdb.so/tiltglow/ledserial"
	"libdb.so/tiltglow/lis3dh"
	"libdb.so/tiltglow/tilt"
	"tinygo.org/x/drivers/ws2812"
)

// Device stores the current state of the board.
type Device struct {
	accel  *lis3dh.Device
	matrix *matrixSink
	queue  *ledserial.Queue
	status bool
}

// NewDevice brings up the matrix and the accelerometer bus. The sensor itself
// is configured by Run.
func NewDevice(queue *ledserial.Queue) (*Device, error) {
	feather.StatusLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	feather.MatrixPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
	feather.MatrixPower.High()

	feather.MatrixData.Configure(machine.PinConfig{Mode: machine.PinOutput})

	err := feather.I2C.Configure(machine.I2CConfig{
		Frequency: feather.I2CFrequency,
		SDA:       feather.I2CSDA,
		SCL:       feather.I2CSCL,
	})
	if err != nil {
		return nil, err
	}

	return &Device{
		accel:  lis3dh.New(feather.I2C),
		matrix: &matrixSink{strip: ws2812.New(feather.MatrixData)},
		queue:  queue,
	}, nil
}

// Run configures the accelerometer and runs the tilt loop forever. If the
// accelerometer cannot be configured, it never returns either: the matrix
// blinks red instead.
func (d *Device) Run() {
	if !d.accel.Connected() {
		d.queue.Log("lis3dh: WHO_AM_I mismatch, continuing anyway")
	}

	if err := d.accel.Configure(); err != nil {
		d.halt(err)
	}

	loop := tilt.Loop{
		Sensor:     d.accel,
		Sink:       d.matrix,
		Dispatcher: tilt.NewDispatcher(),
		Interval:   tilt.Interval,
		OnTick:     d.onTick,
		OnError: func(err error) {
			d.queue.Error(err)
		},
	}

	loop.Run(context.Background())
}

func (d *Device) onTick(t *tilt.Tick) {
	d.status = !d.status
	feather.StatusLED.Set(d.status)

	d.queue.Logf("Accel: x=%.2f, y=%.2f, z=%.2f", t.Sample.X, t.Sample.Y, t.Sample.Z)
	d.queue.Push(ledserial.SamplePacket{
		X:         t.Sample.X,
		Y:         t.Sample.Y,
		Z:         t.Sample.Z,
		Direction: uint8(t.Direction),
	})
	d.queue.Push(ledserial.FramePacket{Frame: t.Frame})
}

// halt reports err and blinks the matrix red forever.
func (d *Device) halt(err error) {
	d.queue.Error(err)
	d.queue.Push(ledserial.PanicPacket{})

	var f led.Frame
	for {
		f.LEDs().SetRange(0, led.NumPixels, led.RGB(64, 0, 0))
		d.matrix.WriteFrame(&f)
		time.Sleep(250 * time.Millisecond)

		f.LEDs().Clear()
		d.matrix.WriteFrame(&f)
		time.Sleep(250 * time.Millisecond)
	}
}

// matrixSink writes frames to the NeoPixel matrix.
type matrixSink struct {
	strip  ws2812.Device
	colors [led.NumPixels]color.RGBA
}

var _ tilt.Sink = (*matrixSink)(nil)

func (m *matrixSink) WriteFrame(f *led.Frame) error {
	f.LEDs().CopyRGBA(m.colors[:])

	var err error
	critical(func() { err = m.strip.WriteColors(m.colors[:]) })
	return err
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}
