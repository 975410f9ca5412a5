package main

import (
	"io"
	"machine"
	"runtime"
)

type serialWriter struct {
	machine.Serialer
}

// WrapSerial wraps a machine.Serialer in an io.Writer.
func WrapSerial(serial machine.Serialer) io.Writer {
	return serialWriter{Serialer: serial}
}

func (s serialWriter) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := s.WriteByte(c); err != nil {
			return i, err
		}
	}
	runtime.Gosched()
	return len(b), nil
}
