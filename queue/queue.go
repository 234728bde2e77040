// File: queue/queue.go
// Package queue implements a per-producer, single-producer/single-consumer
// growable byte queue built from a chain of ring.Bytes nodes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Growable is exactly one producer's outbox. When the current node
// refuses a write (full, or the write would straddle its boundary) the
// producer doubles the node capacity, up to a fixed ceiling, and links
// the new node in; the consumer advances across nodes as it drains
// them, deleting each behind it. Node deletion is performed exclusively
// by the consumer side (Peek/CommitRead), never by the producer.

package queue

import (
	"sync/atomic"

	"github.com/momentics/nanolog/ring"
)

// Handle is the surface a registered queue exposes to its owner and to
// the consumer: reserve/publish on the write side, peek/advance on the
// read side. *Growable satisfies it; tests may substitute a fake.
type Handle interface {
	Reserve(size int) ([]byte, bool)
	CommitWrite(size int)
	Peek(size int) ([]byte, bool)
	CommitRead(size int)
	IsEmpty() bool
}

// BufferReleaser is implemented by queues that can hand back an
// initial-node backing array for reuse once retired and drained. Only
// a queue that never grew past its first node can satisfy this.
type BufferReleaser interface {
	ReleaseBuffer() ([]byte, bool)
}

// DefaultInitialCapacity is the starting node size recommended by the
// spec: small enough to keep idle producers cheap, doubled on demand.
const DefaultInitialCapacity = 4 * 1024

// DefaultCeiling is the maximum a single node may grow to. A record
// larger than this can never be enqueued and is always dropped.
const DefaultCeiling = 64 * 1024 * 1024

type node struct {
	ring *ring.Bytes
	cap  uint64
	next atomic.Pointer[node]
}

// Growable is a per-producer chain of ring.Bytes nodes that doubles
// capacity on demand, capped at ceiling. Exactly one goroutine may call
// the write-side methods (Reserve/CommitWrite) and exactly one goroutine
// (the backend consumer) may call the read-side methods (Peek/CommitRead,
// IsEmpty).
type Growable struct {
	initialCapacity uint64
	ceiling         uint64

	firstNode *node
	writeNode atomic.Pointer[node]
	readNode  atomic.Pointer[node]
}

// New creates a Growable queue whose first node has initialCapacity
// bytes, growing by doubling up to ceiling.
func New(initialCapacity, ceiling uint64) *Growable {
	if initialCapacity == 0 {
		initialCapacity = DefaultInitialCapacity
	}
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	return newGrowable(ring.New(initialCapacity), initialCapacity, ceiling)
}

// NewWithBuffer creates a Growable queue whose first node reuses buf as
// its backing array. len(buf) must already be a power of two, e.g. one
// produced by ring.RoundUpCapacity and drawn from a pool.BytePool sized
// to match.
func NewWithBuffer(buf []byte, ceiling uint64) *Growable {
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	return newGrowable(ring.NewFromBuffer(buf), uint64(len(buf)), ceiling)
}

func newGrowable(r *ring.Bytes, capacity, ceiling uint64) *Growable {
	first := &node{ring: r, cap: capacity}
	q := &Growable{initialCapacity: capacity, ceiling: ceiling, firstNode: first}
	q.writeNode.Store(first)
	q.readNode.Store(first)
	return q
}

// ReleaseBuffer hands back the initial node's backing array if the
// queue never grew past it. Callers must only invoke this once the
// queue is retired and known empty; the queue must not be used again
// afterward.
func (q *Growable) ReleaseBuffer() ([]byte, bool) {
	if q.writeNode.Load() != q.firstNode || q.readNode.Load() != q.firstNode {
		return nil, false
	}
	return q.firstNode.ring.TakeBuffer(), true
}

// Reserve returns a size-byte writable slot, growing the queue by
// linking a new, larger node when the current write node refuses. It
// fails only when size exceeds the ceiling, or the ceiling has already
// been reached and the current node still refuses — the defined drop
// condition of the spec.
func (q *Growable) Reserve(size int) (slot []byte, ok bool) {
	if size <= 0 {
		return nil, false
	}
	cur := q.writeNode.Load()
	if slot, ok = cur.ring.Reserve(size); ok {
		return slot, true
	}

	if uint64(size) > q.ceiling {
		return nil, false
	}
	if cur.cap >= q.ceiling {
		return nil, false
	}

	newCap := cur.cap * 2
	if newCap > q.ceiling {
		newCap = q.ceiling
	}
	for newCap < uint64(size) && newCap < q.ceiling {
		newCap *= 2
	}
	if newCap > q.ceiling {
		newCap = q.ceiling
	}

	fresh := &node{ring: ring.New(newCap), cap: newCap}
	slot, ok = fresh.ring.Reserve(size)
	if !ok {
		return nil, false
	}
	cur.next.Store(fresh)
	q.writeNode.Store(fresh)
	return slot, true
}

// CommitWrite publishes size bytes previously returned by Reserve. It
// must be called on the same node Reserve most recently grew into, so
// it always targets the current write node.
func (q *Growable) CommitWrite(size int) {
	q.writeNode.Load().ring.CommitWrite(size)
}

// Peek returns size contiguous unread bytes, advancing across an
// exhausted node's link and freeing it if necessary. Returns ok==false
// if fewer than size bytes are available anywhere in the chain.
func (q *Growable) Peek(size int) (data []byte, ok bool) {
	cur := q.readNode.Load()
	if data, ok = cur.ring.Peek(size); ok {
		return data, true
	}
	next := cur.next.Load()
	if next != nil && cur.ring.IsEmpty() {
		q.readNode.Store(next)
		return next.ring.Peek(size)
	}
	return nil, false
}

// CommitRead advances the read node's position by size and, if that
// drains the node completely and another node has been linked, frees
// the drained node and advances the read node pointer.
func (q *Growable) CommitRead(size int) {
	cur := q.readNode.Load()
	cur.ring.CommitRead(size)
	if cur.ring.IsEmpty() {
		if next := cur.next.Load(); next != nil {
			q.readNode.Store(next)
		}
	}
}

// IsEmpty reports whether any unread bytes remain anywhere in the chain.
func (q *Growable) IsEmpty() bool {
	cur := q.readNode.Load()
	for {
		if !cur.ring.IsEmpty() {
			return false
		}
		next := cur.next.Load()
		if next == nil {
			return true
		}
		cur = next
	}
}

// CurrentCapacity returns the capacity of the node currently accepting
// writes, mainly for observability and tests.
func (q *Growable) CurrentCapacity() uint64 {
	return q.writeNode.Load().cap
}

// Ceiling returns the maximum capacity a node in this queue may grow
// to. A record larger than this can never be enqueued.
func (q *Growable) Ceiling() uint64 {
	return q.ceiling
}
