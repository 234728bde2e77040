// File: producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer is the explicit stand-in for the reference implementation's
// thread-local queue slot. Go has no thread-local storage and no
// destructor hook to run on goroutine exit, so retirement that the
// original triggers implicitly is triggered here by an explicit
// Producer.Close call instead — see DESIGN.md for why a finalizer was
// rejected as a substitute.

package nanolog

import (
	"fmt"
	"sync"

	"github.com/momentics/nanolog/api"
	"github.com/momentics/nanolog/queue"
	"github.com/momentics/nanolog/registry"
	"github.com/momentics/nanolog/wire"
)

// Producer is a single goroutine's write handle onto its own
// GrowableQueue. Not safe for concurrent use by more than one
// goroutine, matching the single-producer contract of the queue it
// wraps.
type Producer struct {
	logger *Logger
	queue  *queue.Growable
	handle *registry.QueueHandle
}

func newProducer(l *Logger) *Producer {
	buf := l.core.bufPool.GetBuffer()
	q := queue.NewWithBuffer(buf, l.core.config.QueueCapacityCeiling)
	h := l.core.registry.Register(q)
	return &Producer{logger: l, queue: q, handle: h}
}

// Close retires the producer. Its queue is not freed until the
// consumer has drained it; safe to call from the owning goroutine
// only, and safe to call at most once.
func (p *Producer) Close() {
	p.logger.core.registry.Retire(p.handle)
}

// CallSite caches the decoder id a log statement resolves to, so
// repeated calls to the same source location pay the registration
// cost exactly once.
type CallSite struct {
	id   uint32
	once sync.Once
}

func (l *Logger) formatFor(format string) string {
	if l.name == "" {
		return format
	}
	return fmt.Sprintf("[%s] %s", l.name, format)
}

// Submit0 logs a zero-argument record.
func Submit0(p *Producer, cs *CallSite, level api.Level, format string) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	cs.once.Do(func() { cs.id = wire.RegisterDecoder0(p.logger.formatFor(format)) })
	return submitEncoded(p, wire.Size0(), func(dst []byte, ts uint64) {
		wire.Encode0(dst, ts, level, cs.id)
	})
}

// Submit1 logs a one-argument record.
func Submit1[A wire.Arg](p *Producer, cs *CallSite, level api.Level, format string, a A) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	cs.once.Do(func() { cs.id = wire.RegisterDecoder1[A](p.logger.formatFor(format)) })
	return submitEncoded(p, wire.Size1(a), func(dst []byte, ts uint64) {
		wire.Encode1(dst, ts, level, cs.id, a)
	})
}

// Submit2 logs a two-argument record.
func Submit2[A, B wire.Arg](p *Producer, cs *CallSite, level api.Level, format string, a A, b B) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	cs.once.Do(func() { cs.id = wire.RegisterDecoder2[A, B](p.logger.formatFor(format)) })
	return submitEncoded(p, wire.Size2(a, b), func(dst []byte, ts uint64) {
		wire.Encode2(dst, ts, level, cs.id, a, b)
	})
}

// Submit3 logs a three-argument record.
func Submit3[A, B, C wire.Arg](p *Producer, cs *CallSite, level api.Level, format string, a A, b B, c C) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	cs.once.Do(func() { cs.id = wire.RegisterDecoder3[A, B, C](p.logger.formatFor(format)) })
	return submitEncoded(p, wire.Size3(a, b, c), func(dst []byte, ts uint64) {
		wire.Encode3(dst, ts, level, cs.id, a, b, c)
	})
}

// Submit4 logs a four-argument record.
func Submit4[A, B, C, D wire.Arg](p *Producer, cs *CallSite, level api.Level, format string, a A, b B, c C, d D) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	cs.once.Do(func() { cs.id = wire.RegisterDecoder4[A, B, C, D](p.logger.formatFor(format)) })
	return submitEncoded(p, wire.Size4(a, b, c, d), func(dst []byte, ts uint64) {
		wire.Encode4(dst, ts, level, cs.id, a, b, c, d)
	})
}

var (
	anyDecoderOnce sync.Once
	anyDecoderID   uint32
)

// SubmitAny is the ergonomic, non-hot-path fallback for call sites
// that do not warrant a dedicated CallSite: it formats eagerly with
// fmt.Sprintf (allocating, unlike SubmitN) and enqueues the result as
// a single owned string. Prefer SubmitN with a *CallSite on any path
// where enqueue latency matters.
func SubmitAny(p *Producer, level api.Level, format string, args ...any) error {
	if level < p.logger.MinLevel() {
		return nil
	}
	anyDecoderOnce.Do(func() { anyDecoderID = wire.RegisterDecoder1[string]("%s") })
	msg := fmt.Sprintf(format, args...)
	if p.logger.name != "" {
		msg = fmt.Sprintf("[%s] %s", p.logger.name, msg)
	}
	return submitEncoded(p, wire.Size1(msg), func(dst []byte, ts uint64) {
		wire.Encode1(dst, ts, level, anyDecoderID, msg)
	})
}

func submitEncoded(p *Producer, size int, encode func(dst []byte, ts uint64)) error {
	if uint64(size) > p.queue.Ceiling() {
		p.logger.core.registry.RecordDrop()
		return api.ErrRecordTooLarge
	}
	slot, ok := p.queue.Reserve(size)
	if !ok {
		p.logger.core.registry.RecordDrop()
		return api.ErrQueueFull
	}
	encode(slot, p.logger.core.clock.Now())
	p.queue.CommitWrite(size)
	return nil
}
