// Package ledserial implements the telemetry protocol spoken by the firmware
// over its USB serial port. Packets only travel from the device to the host.
//
// Each packet is a type byte, a type-specific payload and a little-endian
// CRC-32 (IEEE) of the type byte and payload.
package ledserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"libdb.so/tiltglow/internal/led"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// PacketType is a type of packet.
type PacketType uint8

const (
	TypeErrorPacket PacketType = iota
	TypePanicPacket
	TypeLogPacket
	TypeSamplePacket
	TypeFramePacket
)

// String returns a string representation of the packet type.
func (t PacketType) String() string {
	switch t {
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	case TypeSamplePacket:
		return "sample"
	case TypeFramePacket:
		return "frame"
	default:
		return fmt.Sprintf("PacketType(%d)", t)
	}
}

// Packet is a packet sent over the wire.
type Packet interface {
	// Type returns the type of packet.
	Type() PacketType
}

// ErrorPacket is a packet that indicates an error occurred.
type ErrorPacket struct {
	Message string
}

// PanicPacket is a packet that indicates the program cannot recover.
type PanicPacket struct{}

// LogPacket is a packet that contains a log message.
type LogPacket struct {
	Message string
}

// SamplePacket reports the oriented accelerometer sample of a tick and the
// direction it was classified as.
type SamplePacket struct {
	X, Y, Z   float32
	Direction uint8
}

// FramePacket carries the frame written to the matrix during a tick.
type FramePacket struct {
	Frame led.Frame
}

func (p ErrorPacket) Type() PacketType  { return TypeErrorPacket }
func (p PanicPacket) Type() PacketType  { return TypePanicPacket }
func (p LogPacket) Type() PacketType    { return TypeLogPacket }
func (p SamplePacket) Type() PacketType { return TypeSamplePacket }
func (p FramePacket) Type() PacketType  { return TypeFramePacket }

// MaxMessageLength is the longest message an error or log packet can carry.
const MaxMessageLength = math.MaxUint16

// ReadPacket reads a packet from the given reader.
func ReadPacket(r io.Reader) (Packet, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var packet Packet
	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read packet type: %w", err)
	}

	switch ptype := PacketType(ptypeBuf[0]); ptype {
	case TypeErrorPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}

	case TypeSamplePacket:
		var p SamplePacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read sample: %w", err)
		}
		packet = p

	case TypeFramePacket:
		var p FramePacket
		if _, err := io.ReadFull(r, p.Frame.LEDs().AsPixels()); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	sum := hash.Sum32()

	var checksum uint32
	if err := binary.Read(r, Endianness, &checksum); err != nil {
		return nil, fmt.Errorf("failed to read packet checksum: %w", err)
	}

	if checksum != sum {
		return nil, fmt.Errorf("packet checksum mismatch")
	}

	return packet, nil
}

// WritePacket writes a packet to the given writer.
func WritePacket(w io.Writer, p Packet) error {
	switch p.(type) {
	case ErrorPacket, PanicPacket, LogPacket, SamplePacket, FramePacket:
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	hash := crc32.NewIEEE()
	hw := io.MultiWriter(w, hash)

	if err := binary.Write(hw, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case ErrorPacket:
		if err := writeMessage(hw, p.Message); err != nil {
			return fmt.Errorf("failed to write error message: %w", err)
		}
	case PanicPacket:
	case LogPacket:
		if err := writeMessage(hw, p.Message); err != nil {
			return fmt.Errorf("failed to write log message: %w", err)
		}
	case SamplePacket:
		if err := binary.Write(hw, Endianness, p); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	case FramePacket:
		if _, err := p.Frame.LEDs().WriteTo(hw); err != nil {
			return fmt.Errorf("failed to write pixel data: %w", err)
		}
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

func readMessage(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeMessage(w io.Writer, msg string) error {
	if len(msg) > MaxMessageLength {
		msg = msg[:MaxMessageLength]
	}
	if err := binary.Write(w, Endianness, uint16(len(msg))); err != nil {
		return err
	}
	_, err := io.WriteString(w, msg)
	return err
}
