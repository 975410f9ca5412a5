// Package lis3dh is a minimal driver for the LIS3DH 3-axis accelerometer
// over I2C. It only does what the tilt display needs: configure the chip once
// and read the three axes in units of standard gravity.
package lis3dh

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/lis3dh"
)

// Address is the default I2C address of the LIS3DH (SDO pulled low).
const Address = lis3dh.Address0

// Configuration values written by Configure.
const (
	ctrl1NormalMode1344Hz = 0b10010111 // all axes on, 1.344 kHz
	ctrl4BlockDataUpdate  = 0b10000000 // latch high/low bytes together
	tempCfgADCEnable      = 0b11000000 // auxiliary ADC and temperature on
)

// Normalization constants. The fold-back values were tuned against real
// hardware; changing them needs the board on the bench.
const (
	scale         = 0.004 / 64.0
	foldThreshold = 2.0
	foldOffset    = 4.1
)

// Sample is one accelerometer reading in units of standard gravity.
type Sample struct {
	X, Y, Z float32
}

// Device is a LIS3DH on an I2C bus. Apart from the address, it holds no
// state between calls.
//
// Register numbers and the identity probe come from the upstream driver.
// Configuration and axis reads are done here.
type Device struct {
	bus     drivers.I2C
	chip    lis3dh.Device
	Address uint16
}

// New creates a new device on the given bus at the default address.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		chip:    lis3dh.New(bus),
		Address: Address,
	}
}

// Connected returns whether a LIS3DH answers on the configured address.
func (d *Device) Connected() bool {
	d.chip.Address = d.Address
	return d.chip.Connected()
}

// Configure writes the mode, resolution and auxiliary registers in order. It
// must be called once before reading. The first failing write is returned;
// nothing is retried.
func (d *Device) Configure() error {
	writes := [...]struct {
		reg, val uint8
		what     string
	}{
		{lis3dh.REG_CTRL1, ctrl1NormalMode1344Hz, "data rate"},
		{lis3dh.REG_CTRL4, ctrl4BlockDataUpdate, "block data update"},
		{lis3dh.REG_TEMPCFG, tempCfgADCEnable, "auxiliary ADC"},
	}
	for _, w := range writes {
		if err := d.writeRegister(w.reg, w.val); err != nil {
			return fmt.Errorf("lis3dh: failed to set %s: %w", w.what, err)
		}
	}
	return nil
}

// ReadAcceleration reads all three axes. Either a full sample is returned or
// the first bus error.
func (d *Device) ReadAcceleration() (Sample, error) {
	x, err := d.readAxis(lis3dh.REG_OUT_X_L, lis3dh.REG_OUT_X_H)
	if err != nil {
		return Sample{}, fmt.Errorf("lis3dh: failed to read x axis: %w", err)
	}
	y, err := d.readAxis(lis3dh.REG_OUT_Y_L, lis3dh.REG_OUT_Y_H)
	if err != nil {
		return Sample{}, fmt.Errorf("lis3dh: failed to read y axis: %w", err)
	}
	z, err := d.readAxis(lis3dh.REG_OUT_Z_L, lis3dh.REG_OUT_Z_H)
	if err != nil {
		return Sample{}, fmt.Errorf("lis3dh: failed to read z axis: %w", err)
	}
	return Sample{X: x, Y: y, Z: z}, nil
}

func (d *Device) readAxis(lowReg, highReg uint8) (float32, error) {
	low, err := d.readRegister(lowReg)
	if err != nil {
		return 0, err
	}
	high, err := d.readRegister(highReg)
	if err != nil {
		return 0, err
	}
	raw := int16(uint16(high)<<8 | uint16(low))
	return normalize(raw), nil
}

// normalize converts a raw left-justified reading into g. Values above 2g
// are folded back; they come from readings that wrapped past the positive
// range.
func normalize(raw int16) float32 {
	v := float32(raw) * scale
	if v > foldThreshold {
		v -= foldOffset
	}
	return v
}

func (d *Device) writeRegister(reg, val uint8) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}

func (d *Device) readRegister(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := d.bus.Tx(d.Address, []byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
