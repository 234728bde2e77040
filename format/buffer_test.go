package format

import (
	"errors"
	"testing"
)

type fakeSink struct {
	writes [][]byte
	flushed bool
	failWrite bool
}

func (f *fakeSink) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errors.New("write failed")
	}
	cp := append([]byte(nil), p...)
	f.writes = append(f.writes, cp)
	return len(p), nil
}
func (f *fakeSink) Flush() error { f.flushed = true; return nil }
func (f *fakeSink) Close() error { return nil }

func TestGrowOnPressureWithNoSink(t *testing.T) {
	b := New(8, nil)
	for i := 0; i < 100; i++ {
		if err := b.WriteByte(byte(i)); err != nil {
			t.Fatalf("WriteByte failed: %v", err)
		}
	}
	if b.Len() != 100 {
		t.Fatalf("expected 100 bytes staged, got %d", b.Len())
	}
}

func TestFlushOnPressureWithSink(t *testing.T) {
	sink := &fakeSink{}
	b := New(16, sink)
	b.threshold = 4
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}
	// The first 14 bytes leave 2 bytes free, below the threshold of 4, so
	// the second write must drain the staged bytes to the sink first.
	for _, chunk := range [][]byte{payload[:14], payload[14:]} {
		if _, err := b.Write(chunk); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if len(sink.writes) == 0 {
		t.Fatalf("expected sink to receive a flush during write pressure")
	}
}

func TestFlushDrainsAndResets(t *testing.T) {
	sink := &fakeSink{}
	b := New(64, sink)
	b.Write([]byte("hello"))
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after flush, got len %d", b.Len())
	}
	if !sink.flushed {
		t.Fatalf("expected sink.Flush to be called")
	}
	if len(sink.writes) != 1 || string(sink.writes[0]) != "hello" {
		t.Fatalf("unexpected sink writes: %v", sink.writes)
	}
}

func TestWriterAdapterAppendsNewlinePerRecord(t *testing.T) {
	b := New(32, nil)
	w := b.Writer()
	w.Write([]byte("record one"))
	b.AppendNewline()
	w.Write([]byte("record two"))
	b.AppendNewline()
	want := "record one\nrecord two\n"
	if string(b.Bytes()) != want {
		t.Fatalf("got %q want %q", string(b.Bytes()), want)
	}
}

func TestFlushPropagatesSinkError(t *testing.T) {
	sink := &fakeSink{failWrite: true}
	b := New(16, sink)
	b.Write([]byte("data"))
	if err := b.Flush(); err == nil {
		t.Fatalf("expected error from failing sink")
	}
}
