package backend

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/momentics/nanolog/api"
	"github.com/momentics/nanolog/format"
	"github.com/momentics/nanolog/registry"
	"github.com/momentics/nanolog/wire"
)

// utcClock is a deterministic api.TimeSource for tests: it converts a
// tick value straight into nanoseconds past the Unix epoch in UTC, so
// the on-disk line prefix's timestamp is stable across test machines
// and time zones.
type utcClock struct{}

func (utcClock) Now() uint64 { return uint64(time.Now().UnixNano()) }
func (utcClock) ToWallClock(ticks uint64) time.Time {
	return time.Unix(0, int64(ticks)).UTC()
}

var timestampPrefixRe = regexp.MustCompile(`^\[\w+\] \d{2}:\d{2}:\d{2}:\d{3} `)

// memQueue is a minimal queue.Handle backed by a plain byte slice,
// used to hand the consumer pre-encoded records without going through
// a real ring/queue chain.
type memQueue struct {
	data []byte
}

func (m *memQueue) Reserve(size int) ([]byte, bool) { return nil, false }
func (m *memQueue) CommitWrite(size int)            {}
func (m *memQueue) Peek(size int) ([]byte, bool) {
	if len(m.data) < size {
		return nil, false
	}
	return m.data[:size], true
}
func (m *memQueue) CommitRead(size int) { m.data = m.data[size:] }
func (m *memQueue) IsEmpty() bool       { return len(m.data) == 0 }

func TestProcessOneSelectsMinimumTimestampAcrossQueues(t *testing.T) {
	id := wire.RegisterDecoder1[string]("msg=%s")

	late := &memQueue{}
	lateSize := wire.Size1("second")
	late.data = make([]byte, lateSize)
	wire.Encode1(late.data, 200, api.INFO, id, "second")

	early := &memQueue{}
	earlySize := wire.Size1("first")
	early.data = make([]byte, earlySize)
	wire.Encode1(early.data, 100, api.INFO, id, "first")

	reg := registry.New()
	reg.Register(late)
	reg.Register(early)
	reg.RefreshSnapshot()

	buf := format.New(256, nil)
	c := New(reg, buf, utcClock{}, nil, nil, nil)

	if !c.processOne() {
		t.Fatalf("expected a record to be processed")
	}
	if !c.processOne() {
		t.Fatalf("expected a second record to be processed")
	}
	if c.processOne() {
		t.Fatalf("expected no more records after draining both queues")
	}

	got := string(buf.Bytes())
	lines := strings.SplitAfter(got, "\n")
	if len(lines) < 2 || !timestampPrefixRe.MatchString(lines[0]) || !timestampPrefixRe.MatchString(lines[1]) {
		t.Fatalf("expected both lines to carry a [LEVEL] HH:MM:SS:mmm prefix, got %q", got)
	}
	want := "msg=first\nmsg=second\n"
	stripped := timestampPrefixRe.ReplaceAllString(lines[0], "") + timestampPrefixRe.ReplaceAllString(lines[1], "")
	if stripped != want {
		t.Fatalf("got %q want %q (after stripping prefixes)", stripped, want)
	}
	if c.ProcessedCount() != 2 {
		t.Fatalf("expected processed count 2, got %d", c.ProcessedCount())
	}
}

func TestDrainStopsWhenQueuesAreEmpty(t *testing.T) {
	reg := registry.New()
	buf := format.New(64, nil)
	c := New(reg, buf, utcClock{}, nil, nil, nil)
	c.drain()
	if c.registry.Dirty() {
		t.Fatalf("expected registry to be clean after draining an empty registry")
	}
}

func TestRunStopIsIdempotentAndDrainsOnStop(t *testing.T) {
	id := wire.RegisterDecoder0("static")
	q := &memQueue{data: make([]byte, wire.Size0())}
	wire.Encode0(q.data, 1, api.INFO, id)

	reg := registry.New()
	reg.Register(q)
	reg.RefreshSnapshot()

	buf := format.New(64, nil)
	c := New(reg, buf, utcClock{}, nil, nil, nil)

	go c.Run()
	time.Sleep(10 * time.Millisecond) // let Run observe the running flag before Stop races it
	c.Stop()
	c.Stop() // idempotent

	got := string(buf.Bytes())
	if !strings.Contains(got, "static") {
		t.Fatalf("expected drained record to reach the buffer, got %q", got)
	}
	if !timestampPrefixRe.MatchString(got) {
		t.Fatalf("expected a [LEVEL] HH:MM:SS:mmm prefix, got %q", got)
	}
}
