// File: format/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer is the consumer's single-writer, single-reader staging ring
// for formatted text. It is deliberately not the same type as
// ring.Bytes: the consumer is its own only writer and reader, so no
// atomics are needed here, and the growth/flush policy differs from
// RingBytes's fixed-capacity contract entirely.

package format

import "github.com/momentics/nanolog/api"

const (
	defaultInitialCapacity = 4096
	defaultThreshold       = 256
)

// Buffer stages formatted bytes before they reach a Sink. With a nil
// sink it operates in grow-on-pressure mode (doubling capacity
// indefinitely); with a sink attached it operates in
// flush-on-pressure mode, draining to the sink whenever free space
// falls below threshold.
type Buffer struct {
	buf       []byte
	threshold int
	sink      api.Sink
}

// New creates a Buffer with the given initial capacity. A nil sink
// selects grow-on-pressure mode; a non-nil sink selects
// flush-on-pressure mode.
func New(initialCapacity int, sink api.Sink) *Buffer {
	if initialCapacity <= 0 {
		initialCapacity = defaultInitialCapacity
	}
	return &Buffer{
		buf:       make([]byte, 0, initialCapacity),
		threshold: defaultThreshold,
		sink:      sink,
	}
}

// Writer returns an io.Writer/io.ByteWriter-compatible handle over b,
// suitable for passing to a wire.DecodeFunc or fmt.Fprintf.
func (b *Buffer) Writer() *Writer { return &Writer{buf: b} }

// Len reports the number of bytes currently staged.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the currently staged bytes. The slice is only valid
// until the next Write, WriteByte, or Flush call.
func (b *Buffer) Bytes() []byte { return b.buf }

// AppendNewline appends a single newline, the record-boundary marker
// the consumer writes after each formatted record.
func (b *Buffer) AppendNewline() error { return b.WriteByte('\n') }

// WriteByte appends a single byte, growing or flushing first if
// necessary.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.ensureSpace(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// Write appends p, growing or flushing first if necessary.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.ensureSpace(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Flush drains all staged bytes to the attached sink and resets the
// buffer to empty. A no-op with no sink attached.
func (b *Buffer) Flush() error {
	if b.sink == nil || len(b.buf) == 0 {
		return nil
	}
	if _, err := b.sink.Write(b.buf); err != nil {
		return err
	}
	b.buf = b.buf[:0]
	return b.sink.Flush()
}

// ensureSpace guarantees at least n bytes of free capacity, either by
// flushing to the sink (flush-on-pressure) or by doubling the backing
// array (grow-on-pressure). Flush is tried first when a sink is
// attached; if that alone does not free enough room — a single record
// larger than the buffer — growth still applies as a fallback.
func (b *Buffer) ensureSpace(n int) error {
	if free := cap(b.buf) - len(b.buf); free >= b.threshold && free >= n {
		return nil
	}
	if b.sink != nil {
		if err := b.Flush(); err != nil {
			return err
		}
		if free := cap(b.buf) - len(b.buf); free >= n {
			return nil
		}
	}
	newCap := cap(b.buf)
	if newCap == 0 {
		newCap = defaultInitialCapacity
	}
	for newCap-len(b.buf) < n || newCap-len(b.buf) < b.threshold {
		newCap *= 2
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
	return nil
}

// Writer adapts a Buffer to io.Writer and io.ByteWriter for use by
// the fmt package and wire.DecodeFunc implementations.
type Writer struct {
	buf *Buffer
}

func (w *Writer) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *Writer) WriteByte(c byte) error      { return w.buf.WriteByte(c) }
