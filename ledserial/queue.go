package ledserial

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Queue buffers outgoing packets between producers that must never block,
// such as the tick loop, and a single goroutine that owns the serial port.
// When the queue is full, new packets are dropped.
type Queue struct {
	packets chan Packet
	dropped atomic.Uint32
}

// NewQueue creates a queue holding up to size packets.
func NewQueue(size int) *Queue {
	return &Queue{packets: make(chan Packet, size)}
}

// Push queues p. It returns false if the queue was full and p was dropped.
func (q *Queue) Push(p Packet) bool {
	select {
	case q.packets <- p:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Log queues a log packet.
func (q *Queue) Log(msg string) bool {
	return q.Push(LogPacket{Message: msg})
}

// Logf queues a formatted log packet.
func (q *Queue) Logf(format string, args ...any) bool {
	return q.Push(LogPacket{Message: fmt.Sprintf(format, args...)})
}

// Error queues an error packet.
func (q *Queue) Error(err error) bool {
	return q.Push(ErrorPacket{Message: err.Error()})
}

// Forward writes packets to w as they are queued, until done is closed or a
// write fails.
func (q *Queue) Forward(w io.Writer, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		case p := <-q.packets:
			if err := WritePacket(w, p); err != nil {
				return err
			}
		}
	}
}

// Pump forwards packets to w until done is closed. A failed write loses the
// packet being written; the error is passed to onError, if not nil, and
// forwarding resumes after retry.
func (q *Queue) Pump(w io.Writer, done <-chan struct{}, retry time.Duration, onError func(error)) {
	for {
		err := q.Forward(w, done)
		if err == nil {
			return
		}
		if onError != nil {
			onError(err)
		}

		timer := time.NewTimer(retry)
		select {
		case <-done:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Dropped returns the number of packets dropped because the queue was full.
func (q *Queue) Dropped() uint32 {
	return q.dropped.Load()
}
