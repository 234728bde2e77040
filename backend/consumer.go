// File: backend/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Consumer is the background goroutine that drains every registered
// producer queue, decodes records in timestamp order, and stages
// formatted text into a format.Buffer backed by a sink. Its run/stop
// structure and backoff-capped idle wait follow the same shape as
// core/concurrency's EventLoop.Run: a quitCh/doneCh pair, a reusable
// timer, and exponential backoff up to a ceiling instead of a fixed
// sleep interval.

package backend

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/nanolog/affinity"
	"github.com/momentics/nanolog/api"
	"github.com/momentics/nanolog/control"
	"github.com/momentics/nanolog/format"
	"github.com/momentics/nanolog/registry"
	"github.com/momentics/nanolog/wire"
)

const (
	// FlushInterval is K from the spec: the number of process_one
	// iterations between periodic flushes and reclamation passes.
	FlushInterval = 50_000

	minIdleSleep = 100 * time.Microsecond
	maxIdleSleep = 10 * time.Millisecond
)

// Consumer drains registry's snapshot queues into a format.Buffer,
// which in turn drains to sink whenever it comes under pressure or is
// explicitly flushed.
type Consumer struct {
	registry  *registry.Registry
	formatBuf *format.Buffer
	clock     api.TimeSource
	metrics   *control.MetricsRegistry
	debug     api.Debug

	cpuAffinity *int

	quitCh chan struct{}
	doneCh chan struct{}
	stop   sync.Once

	running    atomic.Bool
	processed  atomic.Uint64
	lastWorkNs atomic.Int64
}

// New constructs a Consumer. clock converts each record's stamped tick
// back to a wall-clock time for the on-disk line prefix. cpuAffinity,
// if non-nil, pins the consumer goroutine to that logical CPU once Run
// starts. metrics and debug may be nil, in which case the
// corresponding observability hooks are skipped.
func New(reg *registry.Registry, formatBuf *format.Buffer, clock api.TimeSource, cpuAffinity *int, metrics *control.MetricsRegistry, debug api.Debug) *Consumer {
	c := &Consumer{
		registry:    reg,
		formatBuf:   formatBuf,
		clock:       clock,
		metrics:     metrics,
		debug:       debug,
		cpuAffinity: cpuAffinity,
		quitCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	if debug != nil {
		debug.RegisterProbe("nanolog_consumer_stall_ns", func() any {
			last := c.lastWorkNs.Load()
			if last == 0 {
				return int64(0)
			}
			return time.Now().UnixNano() - last
		})
		debug.RegisterProbe("nanolog_records_processed", func() any {
			return c.processed.Load()
		})
	}
	return c
}

// Run executes the consumer loop until Stop is called. It is meant to
// be launched with `go c.Run()`. Calling Run more than once is a
// no-op for the extra callers.
func (c *Consumer) Run() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		close(c.doneCh)
		c.running.Store(false)
	}()

	if c.cpuAffinity != nil {
		runtime.LockOSThread()
		if err := affinity.SetAffinity(*c.cpuAffinity); err != nil {
			log.Printf("[nanolog] consumer affinity pin failed: %v", err)
		}
	}

	sleep := minIdleSleep
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	var iterations uint64
	for {
		if c.registry.Dirty() {
			c.registry.RefreshSnapshot()
		}

		produced := c.processOne()
		iterations++
		if iterations%FlushInterval == 0 {
			c.flushAndReclaim()
		}

		if produced {
			sleep = minIdleSleep
			c.lastWorkNs.Store(time.Now().UnixNano())
			continue
		}

		timer.Reset(sleep)
		select {
		case <-c.quitCh:
			if !timer.Stop() {
				<-timer.C
			}
			c.drain()
			return
		case <-timer.C:
			sleep *= 2
			if sleep > maxIdleSleep {
				sleep = maxIdleSleep
			}
		}
	}
}

// Stop signals the consumer to drain and exit, blocking until it has.
// Idempotent.
func (c *Consumer) Stop() {
	c.stop.Do(func() { close(c.quitCh) })
	if c.running.Load() {
		<-c.doneCh
	}
}

// DroppedCount reports the registry's cumulative drop count.
func (c *Consumer) DroppedCount() uint64 { return c.registry.DroppedCount() }

// ProcessedCount reports the cumulative number of records decoded.
func (c *Consumer) ProcessedCount() uint64 { return c.processed.Load() }

// processOne scans the snapshot, selects the queue holding the
// minimum-timestamp ready record, decodes it into the format buffer,
// and advances that queue's read position. Returns false if no queue
// currently has a complete record ready.
func (c *Consumer) processOne() bool {
	snap := c.registry.Snapshot()

	bestIdx := -1
	var bestHeader api.Header
	for i, h := range snap {
		hb, ok := h.Queue.Peek(api.HeaderSize)
		if !ok {
			continue
		}
		hdr := wire.GetHeader(hb)
		if bestIdx == -1 || hdr.Timestamp < bestHeader.Timestamp {
			bestIdx = i
			bestHeader = hdr
		}
	}
	if bestIdx == -1 {
		return false
	}

	handle := snap[bestIdx]
	total := api.HeaderSize + int(bestHeader.ArgsSize)
	data, ok := handle.Queue.Peek(total)
	if !ok {
		return false
	}
	payload := data[api.HeaderSize:total]

	writer := c.formatBuf.Writer()
	fmt.Fprintf(writer, "[%s] %s ", bestHeader.Level, formatWallClock(c.clock.ToWallClock(bestHeader.Timestamp)))

	decode := wire.Lookup(bestHeader.DecoderID)
	if err := decode(payload, writer); err != nil {
		log.Printf("[nanolog] decode error: %v", err)
	}
	c.formatBuf.AppendNewline()

	handle.Queue.CommitRead(total)
	c.registry.MarkOrphanDrained(handle)
	c.processed.Add(1)
	if c.metrics != nil {
		c.metrics.Set("records_processed", c.processed.Load())
		c.metrics.Set("dropped_count", c.registry.DroppedCount())
	}
	return true
}

// formatWallClock renders t as HH:MM:SS:mmm, the on-disk line
// timestamp format. time.Format can't produce this directly since its
// reference layout always separates the fractional second with a dot,
// not a colon.
func formatWallClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d:%03d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

// flushAndReclaim drains the format buffer to its sink and, if add_flag
// or remove_flag is set, refreshes the snapshot, giving pending_deletion
// a chance to advance even if remove_flag was raised between full loop
// iterations.
func (c *Consumer) flushAndReclaim() {
	if err := c.formatBuf.Flush(); err != nil {
		log.Printf("[nanolog] flush error: %v", err)
	}
	if c.registry.Dirty() {
		c.registry.RefreshSnapshot()
	}
}

// drain runs process_one until it produces nothing, performs a final
// flush, and destroys all remaining registry state.
func (c *Consumer) drain() {
	for {
		if c.registry.Dirty() {
			c.registry.RefreshSnapshot()
		}
		if !c.processOne() {
			break
		}
	}
	if err := c.formatBuf.Flush(); err != nil {
		log.Printf("[nanolog] final flush error: %v", err)
	}
	c.registry.Shutdown()
}
