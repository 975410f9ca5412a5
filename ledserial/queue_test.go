package ledserial

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue(4)
	q.Log("one")
	q.Logf("two=%d", 2)
	q.Error(errors.New("three"))

	pr, pw := io.Pipe()
	done := make(chan struct{})
	defer close(done)

	go q.Forward(pw, done)

	expected := []Packet{
		LogPacket{Message: "one"},
		LogPacket{Message: "two=2"},
		ErrorPacket{Message: "three"},
	}
	for _, e := range expected {
		p, err := ReadPacket(pr)
		if err != nil {
			t.Fatal(err)
		}
		if p != e {
			t.Errorf("expected %#v, got %#v", e, p)
		}
	}
}

var errWrite = errors.New("write failed")

// failingWriter fails its first failures writes, then passes writes on to w.
type failingWriter struct {
	w        io.Writer
	failures int
}

func (w *failingWriter) Write(b []byte) (int, error) {
	if w.failures > 0 {
		w.failures--
		return 0, errWrite
	}
	return w.w.Write(b)
}

func TestQueuePumpResumesAfterWriteError(t *testing.T) {
	q := NewQueue(4)
	q.Log("lost")
	q.Log("kept")

	pr, pw := io.Pipe()
	w := &failingWriter{w: pw, failures: 1}

	done := make(chan struct{})
	defer close(done)

	errs := make(chan error, 4)
	go q.Pump(w, done, time.Millisecond, func(err error) { errs <- err })

	p, err := ReadPacket(pr)
	if err != nil {
		t.Fatal(err)
	}
	if p != (LogPacket{Message: "kept"}) {
		t.Errorf("expected the second packet after the failed write, got %#v", p)
	}

	select {
	case err := <-errs:
		if !errors.Is(err, errWrite) {
			t.Errorf("expected write error, got %v", err)
		}
	default:
		t.Error("expected the write error to be reported")
	}

	// Packets queued after the failure keep flowing.
	q.Log("later")
	p, err = ReadPacket(pr)
	if err != nil {
		t.Fatal(err)
	}
	if p != (LogPacket{Message: "later"}) {
		t.Errorf("expected later packet, got %#v", p)
	}
}

func TestQueuePumpStopsWhenDone(t *testing.T) {
	q := NewQueue(1)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		q.Pump(io.Discard, done, time.Millisecond, nil)
		close(stopped)
	}()

	close(done)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Pump did not stop")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)

	for i, expected := range []bool{true, true, false, false} {
		if ok := q.Log("x"); ok != expected {
			t.Errorf("push %d: expected %v, got %v", i, expected, ok)
		}
	}

	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped packets, got %d", q.Dropped())
	}
}

func TestQueueForward(t *testing.T) {
	q := NewQueue(1)
	w := &chanWriter{writes: make(chan []byte, 1)}
	done := make(chan struct{})
	result := make(chan error, 1)

	go func() { result <- q.Forward(w, done) }()

	q.Log("forwarded")

	var buf bytes.Buffer
	for buf.Len() == 0 || !bytes.Contains(buf.Bytes(), []byte("forwarded")) {
		buf.Write(<-w.writes)
	}

	close(done)
	if err := <-result; err != nil {
		t.Errorf("Forward returned %v", err)
	}
}

type chanWriter struct {
	writes chan []byte
}

func (w *chanWriter) Write(b []byte) (int, error) {
	w.writes <- append([]byte(nil), b...)
	return len(b), nil
}
